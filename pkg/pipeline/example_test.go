package pipeline_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/brandqr/pkg/pipeline"
)

func ExampleRunner_Generate() {
	runner := pipeline.NewRunner(nil, nil, nil, nil)
	res, err := runner.Generate(context.Background(), pipeline.Options{
		Text:      "example.com",
		ECC:       "L",
		Clickable: true,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Matrix.Size(), res.Geometry.TotalSize)
	fmt.Println(res.ClickStatus())
	// Output:
	// 21 290
	// QR code is clickable - opens https://example.com
}

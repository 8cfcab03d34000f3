package request_test

import (
	"bytes"
	"context"
	"fmt"

	"github.com/zonefest/festpdf/request"
)

func ExampleRender() {
	data := `{
		"zone": "B",
		"roster": {
			"title": "Kathakali",
			"subtitle": "Stage 3",
			"entries": [
				{"slNo": 1, "name": "ANJALI MENON", "collegeName": "Govt College"},
				{"slNo": 2, "name": "RAHUL K", "collegeName": "Maharajas College"}
			]
		}
	}`

	var buf bytes.Buffer
	sum, err := request.Render(context.Background(), &buf, []byte(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Generated roster: %d page(s)\n", sum.Pages)
	// Output pattern: Generated roster: N page(s)
}

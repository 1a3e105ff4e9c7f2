package main

import (
	"fmt"
	"os"
	"path/filepath"

	"dtimelog/internal/features/charts"
)

// go run etc/tools/test_chart.go
// in etc/charts/stock.svg and etc/charts/stock.png
func main() {
	fmt.Println("Generating test charts...")

	for _, name := range []string{"stock.svg", "stock.png"} {
		opts := charts.DefaultOptions()
		opts.OutputPath = filepath.Join("etc", "charts", name)

		res, err := charts.RenderCandlesticks(opts)
		if err != nil {
			fmt.Printf("Error generating %s: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("Chart generated successfully: %s (%d candles, %d bytes)\n", res.Path, res.Marks, res.Bytes)
	}
	fmt.Println("Open the files to see the result!")
}

package main

import "github.com/steplab/ocrprep/cmd/ocrprep/cmd"

func main() {
	cmd.Execute()
}

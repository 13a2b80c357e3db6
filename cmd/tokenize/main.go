// Package main provides the tokenize command-line tool for preprocessing
// article text into lowercase, stop-word-free tokens.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"newsharvest/pkg/textprep"
)

func main() {
	inputPath := flag.String("input", "", "Path to input text file (default: stdin)")
	asJSON := flag.Bool("json", false, "Emit tokens as a JSON array instead of one per line")
	flag.Parse()

	var (
		data []byte
		err  error
	)

	if *inputPath != "" {
		data, err = os.ReadFile(*inputPath)
		if err != nil {
			log.Fatalf("Error reading file: %v\n", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Error reading stdin: %v\n", err)
		}
	}

	tokens := textprep.Tokenize(string(data))

	if *asJSON {
		out, err := json.Marshal(tokens)
		if err != nil {
			log.Fatalf("Error marshaling JSON: %v\n", err)
		}

		fmt.Println(string(out))

		return
	}

	for _, token := range tokens {
		fmt.Println(token)
	}
}

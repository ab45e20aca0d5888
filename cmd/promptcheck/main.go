package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/tootli/dineout-assistant/recommend"
)

// promptcheck renders the exact prompt a request would produce, for manual
// inspection while tuning the template. Usage: promptcheck request.json
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: promptcheck <request.json>")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read request file: %v", err)
	}

	var req recommend.Request
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatalf("failed to parse request: %v", err)
	}

	if err := req.Validate(); err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	fmt.Println(recommend.BuildPrompt(&req))
}

// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/tliron/commonlog"

	"silica/internal/daemon"
)

// silicad serves the line-oriented JSON analysis protocol over stdio: one
// request object per input line, one response object per output line.
// Requests are served strictly in arrival order from the single input
// stream, so the pipeline below needs no internal locking.
func main() {
	commonlog.Configure(1, nil)

	log.SetOutput(os.Stderr)
	log.Println("silicad: serving on stdio")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	out := bufio.NewWriter(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := daemon.HandleLine(line)
		encoded, err := json.Marshal(resp)
		if err != nil {
			log.Printf("silicad: response marshal failed: %v", err)
			continue
		}
		fmt.Fprintf(out, "%s\n", encoded)
		out.Flush()
	}
	if err := scanner.Err(); err != nil {
		log.Printf("silicad: input stream error: %v", err)
		os.Exit(1)
	}
}

// Command tdwhash computes the JCS-canonicalized, multihash, base58-encoded
// hash of an arbitrary JSON file — the same primitive internal/canonical
// applies to log entries during verification, exposed standalone for
// building and checking did:tdw log fixtures by hand.
//
// Descended from the teacher's cmd/seal, stripped of its Ethereum signing
// and filesystem-store responsibilities: this tool only hashes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/stackdump/tdw-resolver/internal/canonical"
)

func main() {
	inPath := flag.String("in", "-", "input JSON file. Use - for stdin")
	pretty := flag.Bool("pretty", false, "print the canonical JSON bytes alongside the hash")
	flag.Parse()

	var data []byte
	var err error
	if *inPath == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("reading stdin: %v", err)
		}
	} else {
		data, err = os.ReadFile(*inPath)
		if err != nil {
			log.Fatalf("reading file %s: %v", *inPath, err)
		}
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Fatalf("parsing JSON: %v", err)
	}

	canon, err := canonical.Canonicalize(v)
	if err != nil {
		log.Fatalf("canonicalize: %v", err)
	}

	hash, err := canonical.Hash(v)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}

	if *pretty {
		fmt.Printf("---- canonical ----\n%s\n", canon)
	}
	fmt.Println(hash)
}

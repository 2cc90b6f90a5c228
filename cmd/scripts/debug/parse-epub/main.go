package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/bookbuddy/pkg/epub"
	"github.com/shishobooks/bookbuddy/pkg/errcodes"
)

func main() {
	log := logger.New()

	var opts struct {
		CoverOutput string `short:"o" long:"cover-output" description:"A path to output the cover image"`
		Raw         bool   `short:"r" long:"raw" description:"Print every OPF metadata element"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/parse-epub <path/to/file.epub>")
		os.Exit(1)
	}

	md, err := epub.Parse(args[0])
	if err != nil {
		log.Err(err).Fatal("epub parse error")
	}
	fmt.Printf("Package: %s\nCover: %s (%s, %d bytes)\n", md.PackagePath, md.CoverPath, md.CoverMimeType, len(md.CoverData))

	if opts.Raw {
		for _, key := range sortedKeys(md.Fields) {
			fmt.Printf("  %s: %q\n", key, md.Fields[key])
		}
		for _, key := range sortedKeys(md.Meta) {
			fmt.Printf("  meta %s: %q\n", key, md.Meta[key])
		}
	}

	book, err := epub.BookFromMetadata(md)
	if err != nil {
		code, msg := errcodes.Describe(err)
		fmt.Printf("No book record (%s): %s\n", code, msg)
	} else {
		out, err := json.MarshalIndent(book, "", "  ")
		if err != nil {
			log.Err(err).Fatal("json marshal error")
		}
		fmt.Println(string(out))
	}

	if opts.CoverOutput != "" && md.CoverData != nil {
		if err := os.WriteFile(opts.CoverOutput, md.CoverData, 0644); err != nil {
			log.Err(err).Fatal("file write error")
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

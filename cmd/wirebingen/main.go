// wirebingen generates wire codec methods for the types of a package.
//
// Usage:
//
//	wirebingen -type T1,T2 [-dir .] [-output wire_gen.go]
//
// It is meant to be driven by go:generate directives next to the type
// declarations:
//
//	//go:generate wirebingen -type Point,Shape -output wire_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wavelayer/wirebin/internal/gen"
)

func main() {
	var (
		typeNames = flag.String("type", "", "comma-separated list of type names (required)")
		dir       = flag.String("dir", ".", "package directory")
		output    = flag.String("output", "wire_gen.go", "output file name, written into the package directory")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: wirebingen -type T1,T2 [-dir .] [-output wire_gen.go]")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Str("app", "wirebingen").Logger()

	if *typeNames == "" {
		flag.Usage()
		os.Exit(2)
	}
	types := strings.Split(*typeNames, ",")
	for i := range types {
		types[i] = strings.TrimSpace(types[i])
	}

	src, err := gen.Generate(gen.Config{Dir: *dir, Types: types})
	if err != nil {
		logger.Fatal().Err(err).Msg("generation failed")
	}

	path := filepath.Join(*dir, *output)
	if err := os.WriteFile(path, src, 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("writing output")
	}
	logger.Info().Str("path", path).Strs("types", types).Msg("generated codecs")
}

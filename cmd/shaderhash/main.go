// Command shaderhash prints the cache identity of shader source files and
// optionally pre-translates them into a shadercache store file.
//
// Usage:
//
//	shaderhash [options] <input>...
//
// Examples:
//
//	shaderhash shader.wgsl                      # Print identity (vertex stage)
//	shaderhash -stage ps shader.wgsl            # Print identity for pixel stage
//	shaderhash -compile -o out.spv shader.wgsl  # Translate to SPIR-V
//	shaderhash -compile -store cache.bin *.wgsl # Prime a persistent store
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/shadercache"
)

var (
	stageTag  = flag.String("stage", "vs", "pipeline stage tag (vs, hs, ds, gs, ps, cs)")
	compile   = flag.Bool("compile", false, "translate WGSL source to SPIR-V")
	output    = flag.String("o", "", "SPIR-V output file (single input only)")
	storePath = flag.String("store", "", "write translation results into this store file")
	debug     = flag.Bool("debug", false, "include debug info in translated SPIR-V")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	stage, ok := shadercache.ParseStage(*stageTag)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown stage %q\n", *stageTag)
		os.Exit(1)
	}

	if *output != "" && len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -o requires exactly one input file")
		os.Exit(1)
	}

	var store *shadercache.Store
	if *storePath != "" {
		var err error
		store, err = shadercache.OpenStore(*storePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := shadercache.DefaultCompileConfig()
	cfg.Debug = *debug

	exitCode := 0
	for _, path := range args {
		if err := process(path, stage, &cfg, store); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
		}
	}

	if store != nil {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving store: %v\n", err)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

func process(path string, stage shadercache.Stage, cfg *shadercache.CompileConfig, store *shadercache.Store) error {
	bytecode, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	id := shadercache.NewIdentity(stage, bytecode)
	fmt.Printf("%s  bucket=%016x  %s\n", id.Name(), id.BucketHash(), path)

	if !*compile && store == nil {
		return nil
	}

	res, err := shadercache.WGSLCompiler{}.Compile(nil, cfg, id, bytecode)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Put(id, res); err != nil {
			return err
		}
	}

	if *output != "" {
		if err := os.WriteFile(*output, spirvBytes(res.SPIRV), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d words)\n", *output, len(res.SPIRV))
	}

	return nil
}

// spirvBytes flattens SPIR-V words into a little-endian byte stream.
func spirvBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shaderhash [options] <input>...\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shaderhash shader.wgsl                      Print identity\n")
	fmt.Fprintf(os.Stderr, "  shaderhash -stage ps shader.wgsl            Pixel-stage identity\n")
	fmt.Fprintf(os.Stderr, "  shaderhash -compile -o out.spv shader.wgsl  Translate to SPIR-V\n")
	fmt.Fprintf(os.Stderr, "  shaderhash -compile -store cache.bin a.wgsl Prime a store file\n")
}

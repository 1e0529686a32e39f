// jsblob inspects serialized function blobs and manages the blob cache.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chazu/jscore/blobcache"
	"github.com/chazu/jscore/config"
	"github.com/chazu/jscore/vm"
	"github.com/chazu/jscore/vm/blob"
	"github.com/dustin/go-humanize"
	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("jscore.cli")

func main() {
	verbose := flag.Int("v", -1, "Log verbosity (overrides jscore.toml)")
	configDir := flag.String("C", ".", "Directory to search upward for jscore.toml")
	cachePath := flag.String("cache", "", "Blob cache database (overrides jscore.toml)")
	strip := flag.Bool("strip", false, "Strip debug info when re-encoding")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jsblob [options] <command> [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  inspect <blob>          Print the function tree of a blob\n")
		fmt.Fprintf(os.Stderr, "  cbor <blob>             Print the CBOR description in diagnostic notation\n")
		fmt.Fprintf(os.Stderr, "  strings <blob>          Dump the strings a blob interns\n")
		fmt.Fprintf(os.Stderr, "  reencode <blob> <out>   Decode and encode again (see -strip)\n")
		fmt.Fprintf(os.Stderr, "  store <blob>...         Add blobs to the cache and print their keys\n")
		fmt.Fprintf(os.Stderr, "  fetch <key> <out>       Write a cached blob to a file\n")
		fmt.Fprintf(os.Stderr, "  list                    List cached blobs\n")
		fmt.Fprintf(os.Stderr, "  delete <key>...         Remove blobs from the cache\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.FindAndLoad(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if *verbose >= 0 {
		cfg.Logging.Verbosity = *verbose
	}
	if *cachePath != "" {
		cfg.Blob.Cache = *cachePath
	}
	if *strip {
		cfg.Blob.StripDebug = true
	}
	cfg.ConfigureLogging()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, cmd string, args []string) error {
	s := vm.NewState(cfg.StateOptions()...)
	defer s.Close()

	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}

	switch cmd {
	case "inspect":
		if err := need(1); err != nil {
			return err
		}
		fn, data, err := decodeFile(s, args[0])
		if err != nil {
			return err
		}
		printTree(fn, len(data))

	case "cbor":
		if err := need(1); err != nil {
			return err
		}
		fn, _, err := decodeFile(s, args[0])
		if err != nil {
			return err
		}
		desc, err := blob.MarshalDescription(fn)
		if err != nil {
			return err
		}
		diag, err := cbor.Diagnose(desc)
		if err != nil {
			return err
		}
		fmt.Println(diag)

	case "strings":
		if err := need(1); err != nil {
			return err
		}
		if _, _, err := decodeFile(s, args[0]); err != nil {
			return err
		}
		fmt.Printf("%d strings, %s\n", s.Interner().Len(), humanize.Bytes(uint64(s.Interner().Bytes())))
		return s.Interner().Dump(os.Stdout)

	case "reencode":
		if err := need(2); err != nil {
			return err
		}
		fn, before, err := decodeFile(s, args[0])
		if err != nil {
			return err
		}
		after, err := blob.Encode(s, fn, cfg.BlobFlags())
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], after, 0644); err != nil {
			return err
		}
		fmt.Printf("%s -> %s (%s -> %s)\n", args[0], args[1],
			humanize.Bytes(uint64(len(before))), humanize.Bytes(uint64(len(after))))

	case "store":
		if err := need(1); err != nil {
			return err
		}
		return withCache(cfg, func(c *blobcache.Store) error {
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				key, err := c.Put(s, data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Printf("%s  %s\n", key, path)
			}
			return nil
		})

	case "fetch":
		if err := need(2); err != nil {
			return err
		}
		return withCache(cfg, func(c *blobcache.Store) error {
			data, err := c.Get(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return os.WriteFile(args[1], data, 0644)
		})

	case "list":
		return withCache(cfg, func(c *blobcache.Store) error {
			entries, err := c.List()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %8s  %-20s  %s\n", e.Key, humanize.Bytes(uint64(e.Size)), e.Name, humanize.Time(e.Created))
			}
			return nil
		})

	case "delete":
		if err := need(1); err != nil {
			return err
		}
		return withCache(cfg, func(c *blobcache.Store) error {
			for _, key := range args {
				if err := c.Delete(key); err != nil {
					return err
				}
			}
			return nil
		})

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func decodeFile(s *vm.State, path string) (*vm.Function, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	fn, err := blob.Decode(s, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("decoded %s (%s)", path, humanize.Bytes(uint64(len(data))))
	return fn, data, nil
}

func withCache(cfg *config.Config, fn func(*blobcache.Store) error) error {
	c, err := blobcache.Open(cfg.CachePath())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func printTree(fn *vm.Function, size int) {
	st := blob.Measure(fn)
	fmt.Printf("%s, %d functions, %d instructions, depth %d\n",
		humanize.Bytes(uint64(size)), st.Functions, st.Instructions, st.MaxDepth)
	blob.Walk(fn, func(f *vm.Function, depth int) bool {
		name := f.Name
		if name == "" {
			name = "<anonymous>"
		}
		var flags []string
		for _, fl := range []struct {
			on   bool
			name string
		}{{f.Script, "script"}, {f.Strict, "strict"}, {f.Lightweight, "lightweight"}, {f.Arguments, "arguments"}} {
			if fl.on {
				flags = append(flags, fl.name)
			}
		}
		loc := ""
		if f.Filename != "" {
			loc = fmt.Sprintf(" %s:%d-%d", f.Filename, f.Line, f.LastLine)
		}
		fmt.Printf("%s%s(%d)%s [%s] code=%d nums=%d strs=%d vars=%d\n",
			strings.Repeat("  ", depth), name, f.NumParams, loc, strings.Join(flags, ","),
			len(f.Code), len(f.Nums), len(f.Strs), len(f.Vars))
		return true
	})
}

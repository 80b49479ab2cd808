// borghash-cli is a REPL and scripted inspector for borghash .idx files.
//
// Usage:
//
//	borghash-cli <index-file>              Open an existing index file
//	borghash-cli new [opts] <index-file>   Create a new index file
//
// Options for 'new':
//
//	-k, --key-size      Key size in bytes (default: from config, else 32)
//	-v, --value-size    Value size in bytes (default: from config, else 12)
//	-c, --capacity      Initial capacity (default: from config, else 1000)
//
// Commands (in REPL):
//
//	put <key> <value>   Insert or update an entry
//	get <key>           Retrieve an entry by key
//	del <key>           Delete an entry
//	scan [limit]        List all entries
//	len                 Count live entries
//	info                Show index info
//	bulk <count>        Insert N random entries
//	seq <count> [start] Insert N sequential entries
//	bench <count>       Benchmark set+get performance
//	save                Write the index back to disk (atomic)
//	help                Show this help
//	exit / quit / q     Exit (writes unsaved changes back to disk first)
package main

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/dedupe-tools/borghash/pkg/borghash"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return errors.New("missing command or index file path")
	}

	if os.Args[1] == "new" {
		return runNew(os.Args[2:])
	}

	return runOpen(os.Args[1:])
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  borghash-cli <index-file>              Open an existing index file\n")
	fmt.Fprintf(os.Stderr, "  borghash-cli new [opts] <index-file>   Create a new index file\n")
	fmt.Fprintf(os.Stderr, "\nRun 'borghash-cli new --help' for options when creating a new index.\n")
}

func runNew(args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := loadConfig(workDir)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("new", flag.ExitOnError)

	keySize := fs.IntP("key-size", "k", cfg.KeySize, "key size in bytes")
	valueSize := fs.IntP("value-size", "v", cfg.ValueSize, "value size in bytes")
	capacity := fs.IntP("capacity", "c", cfg.Capacity, "initial capacity")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: borghash-cli new [options] <index-file>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing index file path")
	}

	path := fs.Arg(0)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("index file already exists: %s (use 'borghash-cli %s' to open it)", path, path)
	}

	ix, err := borghash.Init(*capacity, *keySize, *valueSize)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	fmt.Printf("Creating index with:\n")
	fmt.Printf("  Path:        %s\n", path)
	fmt.Printf("  Key size:    %d bytes\n", *keySize)
	fmt.Printf("  Value size:  %d bytes\n", *valueSize)
	fmt.Printf("  Capacity:    %d (buckets: %d)\n", *capacity, ix.NumBuckets())
	fmt.Println()

	// Marked dirty so the new file is written on exit even with no edits.
	repl := &REPL{index: ix, path: path, keySize: *keySize, valueSize: *valueSize, dirty: true}

	return repl.Run()
}

func runOpen(args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: borghash-cli <index-file>\n\nOpen an existing index file.\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing index file path")
	}

	path := fs.Arg(0)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("index file does not exist: %s (use 'borghash-cli new %s' to create it)", path, path)
	}

	ix, err := borghash.Read(path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}

	repl := &REPL{index: ix, path: path, keySize: ix.KeySize(), valueSize: ix.ValueSize()}

	return repl.Run()
}

// REPL is the interactive command loop over a single *borghash.Index.
type REPL struct {
	index     *borghash.Index
	path      string
	keySize   int
	valueSize int
	dirty     bool
	liner     *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".borghash-cli_history")
}

// Run starts the REPL loop. On exit it writes the index back to path if it
// was modified since the last save.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("borghash-cli (key_size=%d, value_size=%d, buckets=%d, len=%d)\n",
		r.keySize, r.valueSize, r.index.NumBuckets(), r.index.Len())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("borghash> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			if err := r.saveIfDirty(); err != nil {
				fmt.Printf("Error saving on exit: %v\n", err)
			}

			fmt.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "put", "set":
			r.cmdPut(args)

		case "get":
			r.cmdGet(args)

		case "del", "delete":
			r.cmdDelete(args)

		case "scan", "ls", "list":
			r.cmdScan(args)

		case "len", "count":
			r.cmdLen()

		case "info":
			r.cmdInfo()

		case "save":
			r.cmdSave()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		case "bulk":
			r.cmdBulk(args)

		case "seq":
			r.cmdSeq(args)

		case "bench":
			r.cmdBench(args)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	if err := r.saveIfDirty(); err != nil {
		fmt.Printf("Error saving on exit: %v\n", err)
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveIfDirty() error {
	if !r.dirty {
		return nil
	}

	if err := r.index.WriteAtomic(r.path); err != nil {
		return err
	}

	r.dirty = false

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"put", "set", "get", "del", "delete",
		"scan", "ls", "list", "len", "count",
		"info", "save", "bulk", "seq", "bench",
		"clear", "cls", "help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <key> <value>     Insert or update an entry")
	fmt.Println("  get <key>             Retrieve an entry by key")
	fmt.Println("  del <key>             Delete an entry")
	fmt.Println("  scan [limit]          List all entries")
	fmt.Println("  len                   Count live entries")
	fmt.Println("  info                  Show index info")
	fmt.Println("  save                  Write the index back to disk now")
	fmt.Println("  bulk <count>          Insert N random entries")
	fmt.Println("  seq <count> [start]   Insert N sequential entries")
	fmt.Println("  bench <count>         Benchmark set+get performance")
	fmt.Println("  help                  Show this help")
	fmt.Println("  exit / quit / q       Exit (saves unsaved changes first)")
	fmt.Println()
	fmt.Println("Keys and values: hex (e.g., 'deadbeef') or plain text.")
	fmt.Println("                  Zero-padded or truncated to the configured size.")
}

// parseFixed parses user input as hex, falling back to plain text, then
// pads or truncates to size.
func parseFixed(s string, size int) []byte {
	raw, err := hex.DecodeString(s)
	if err != nil {
		raw = []byte(s)
	}

	out := make([]byte, size)
	copy(out, raw)

	return out
}

func formatFixed(b []byte) string {
	printable := true

	for _, c := range b {
		if c != 0 && (c < 32 || c > 126) {
			printable = false
			break
		}
	}

	if printable {
		end := len(b)
		for end > 0 && b[end-1] == 0 {
			end--
		}

		if end > 0 {
			return fmt.Sprintf("%q", string(b[:end]))
		}
	}

	return hex.EncodeToString(b)
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: put <key> <value>")
		return
	}

	key := parseFixed(args[0], r.keySize)
	value := parseFixed(args[1], r.valueSize)

	if err := r.index.Set(key, value); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	r.dirty = true
	fmt.Printf("OK: put %s = %s\n", formatFixed(key), formatFixed(value))
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")
		return
	}

	key := parseFixed(args[0], r.keySize)

	value, ok := r.index.Get(key)
	if !ok {
		fmt.Println("(not found)")
		return
	}

	fmt.Printf("Key:   %s\n", formatFixed(key))
	fmt.Printf("Value: %s\n", formatFixed(value))
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <key>")
		return
	}

	key := parseFixed(args[0], r.keySize)

	_, existed := r.index.Get(key)

	if err := r.index.Delete(key); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	r.dirty = true

	if existed {
		fmt.Printf("OK: deleted %s\n", formatFixed(key))
	} else {
		fmt.Printf("OK: %s did not exist\n", formatFixed(key))
	}
}

func (r *REPL) cmdScan(args []string) {
	limit := 20

	if len(args) >= 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Error parsing limit: %v\n", err)
			return
		}

		limit = n
	}

	count := 0

	for k, v := range r.index.All() {
		if count >= limit {
			fmt.Printf("... (showing first %d, use 'scan <limit>' for more)\n", limit)
			return
		}

		count++
		fmt.Printf("%3d. %s = %s\n", count, formatFixed(k), formatFixed(v))
	}

	if count == 0 {
		fmt.Println("(empty)")
	}
}

func (r *REPL) cmdLen() {
	fmt.Printf("Live entries: %d\n", r.index.Len())
}

func (r *REPL) cmdInfo() {
	fmt.Printf("Index Info:\n")
	fmt.Printf("  Path:        %s\n", r.path)
	fmt.Printf("  Key size:    %d bytes\n", r.keySize)
	fmt.Printf("  Value size:  %d bytes\n", r.valueSize)
	fmt.Printf("  Buckets:     %d\n", r.index.NumBuckets())
	fmt.Printf("  Live entries: %d\n", r.index.Len())
	fmt.Printf("  On-disk size: %d bytes\n", r.index.Size())
	fmt.Printf("  Unsaved changes: %v\n", r.dirty)
}

func (r *REPL) cmdSave() {
	if err := r.index.WriteAtomic(r.path); err != nil {
		fmt.Printf("Error saving: %v\n", err)
		return
	}

	r.dirty = false
	fmt.Printf("OK: saved to %s\n", r.path)
}

func (r *REPL) cmdBulk(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: bulk <count>")
		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		fmt.Println("Error: count must be a positive integer")
		return
	}

	start := time.Now()

	for i := 0; i < count; i++ {
		key := make([]byte, r.keySize)
		rand.Read(key)

		value := make([]byte, r.valueSize)
		binary.LittleEndian.PutUint32(value, uint32(i))

		if err := r.index.Set(key, value); err != nil {
			fmt.Printf("Error at entry %d: %v\n", i+1, err)
			return
		}
	}

	r.dirty = true

	elapsed := time.Since(start)
	rate := float64(count) / elapsed.Seconds()
	fmt.Printf("OK: inserted %d entries in %v (%.0f ops/sec)\n", count, elapsed.Round(time.Millisecond), rate)
}

func (r *REPL) cmdSeq(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: seq <count> [start]")
		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		fmt.Println("Error: count must be a positive integer")
		return
	}

	startNum := uint64(0)
	if len(args) >= 2 {
		startNum, err = strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			fmt.Printf("Error parsing start: %v\n", err)
			return
		}
	}

	start := time.Now()

	for i := 0; i < count; i++ {
		key := make([]byte, r.keySize)
		binary.LittleEndian.PutUint32(key, uint32(startNum)+uint32(i))

		value := make([]byte, r.valueSize)
		binary.LittleEndian.PutUint32(value, uint32(startNum)+uint32(i))

		if err := r.index.Set(key, value); err != nil {
			fmt.Printf("Error at entry %d: %v\n", i+1, err)
			return
		}
	}

	r.dirty = true

	elapsed := time.Since(start)
	rate := float64(count) / elapsed.Seconds()
	fmt.Printf("OK: inserted %d sequential entries in %v (%.0f ops/sec)\n", count, elapsed.Round(time.Millisecond), rate)
}

func (r *REPL) cmdBench(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: bench <count>")
		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		fmt.Println("Error: count must be a positive integer")
		return
	}

	keys := make([][]byte, count)
	for i := range keys {
		keys[i] = make([]byte, r.keySize)
		rand.Read(keys[i])
	}

	fmt.Printf("Benchmarking %d operations...\n", count)

	value := make([]byte, r.valueSize)

	setStart := time.Now()

	for i, key := range keys {
		binary.LittleEndian.PutUint32(value, uint32(i))

		if err := r.index.Set(key, value); err != nil {
			fmt.Printf("Error at set %d: %v\n", i+1, err)
			return
		}
	}

	r.dirty = true
	setElapsed := time.Since(setStart)

	getStart := time.Now()
	hits := 0

	for _, key := range keys {
		if _, ok := r.index.Get(key); ok {
			hits++
		}
	}

	getElapsed := time.Since(getStart)

	fmt.Printf("\nResults:\n")
	fmt.Printf("  Sets: %d ops in %v (%.0f ops/sec)\n",
		count, setElapsed.Round(time.Millisecond), float64(count)/setElapsed.Seconds())
	fmt.Printf("  Gets: %d ops in %v (%.0f ops/sec), %d hits\n",
		count, getElapsed.Round(time.Millisecond), float64(count)/getElapsed.Seconds(), hits)
}

// Package cmd implements the CLI application driving the tracker core.
package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/785823869/gametrad"
	"github.com/785823869/gametrad/ocr"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok
// to use global variables.

var (
	dataDir       = flag.String("data-dir", ".gametrad", "Path to the data directory holding the JSONL event files")
	dictFile      = flag.String("dict", "items.txt", "Path to the item dictionary file, one canonical item name per line")
	overridesFile = flag.String("overrides", "formulas.json", "Path to the formula override file (JSON)")
)

// Environment variables passed to extension processes and respected by
// wrapper scripts.
const (
	EnvDataDir   = "GT_DATA_DIR"
	EnvDictFile  = "GT_DICT_FILE"
	EnvOverrides = "GT_OVERRIDES_FILE"
)

// Commands is the full set of subcommands, in registration order.
var Commands = []subcommands.Command{
	&stockInCmd{},
	&stockOutCmd{},
	&deleteCmd{},
	&valuationCmd{},
	&ledgerCmd{},
	&historyCmd{},
	&undoCmd{},
	&redoCmd{},
	&formulaCmd{},
	&parseCmd{},
	&assistCmd{},
	&fetchCmd{},
	&topicCmd{},
}

func init() {
	if v := os.Getenv(EnvDataDir); v != "" {
		*dataDir = v
	}
	if v := os.Getenv(EnvDictFile); v != "" {
		*dictFile = v
	}
	if v := os.Getenv(EnvOverrides); v != "" {
		*overridesFile = v
	}
}

// OpenStore opens the file-backed event store in the data directory.
func OpenStore() (*gametrad.FileStore, error) {
	return gametrad.NewFileStore(*dataDir)
}

// OpenEngine creates the formula engine over the override file.
func OpenEngine() *gametrad.Engine {
	return gametrad.NewEngine(gametrad.NewFileFormulaStore(*overridesFile))
}

// Overrides opens the formula override keystore.
func Overrides() gametrad.FormulaStore {
	return gametrad.NewFileFormulaStore(*overridesFile)
}

// LoadDictionary reads the item dictionary file. A missing file yields an
// empty dictionary; the monitor parser will refuse it with a clear error.
func LoadDictionary() (*ocr.Dictionary, error) {
	f, err := os.Open(*dictFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, dictionary file does not exist, using an empty dictionary instead")
		return ocr.NewDictionary(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open dictionary %q: %w", *dictFile, err)
	}
	defer f.Close()
	return ocr.LoadDictionary(bufio.NewScanner(f))
}

// reportWarnings prints non-fatal findings to stderr.
func reportWarnings(warnings []error) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
}

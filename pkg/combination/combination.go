package combination

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Dimension names one of the experiment parameters encoded in a result file name
type Dimension string

const (
	DimensionFrequency Dimension = "frequency"
	DimensionBlocksize Dimension = "blocksize"
	DimensionNob       Dimension = "nob"
)

// Dimensions lists every dimension in file-name order
var Dimensions = []Dimension{DimensionFrequency, DimensionBlocksize, DimensionNob}

const resultSuffix = ".csv"

var resultPattern = regexp.MustCompile(`^result_summary_f(\d+)_bs(\d+)_nob(\d+)\.csv$`)

// Combination is one experiment configuration found on disk
type Combination struct {
	Frequency int    `json:"frequency"`
	Blocksize int    `json:"blocksize"`
	Nob       int    `json:"nob"`
	Path      string `json:"-"`
}

// Set holds the distinct values observed per dimension, ascending
type Set struct {
	Frequency []int `json:"frequency"`
	Blocksize []int `json:"blocksize"`
	Nob       []int `json:"nob"`
}

// Values returns the sequence for one dimension
func (s Set) Values(dim Dimension) []int {
	switch dim {
	case DimensionFrequency:
		return s.Frequency
	case DimensionBlocksize:
		return s.Blocksize
	case DimensionNob:
		return s.Nob
	}
	return nil
}

// Empty reports whether no result file was discovered
func (s Set) Empty() bool {
	return len(s.Frequency) == 0 && len(s.Blocksize) == 0 && len(s.Nob) == 0
}

// FileName formats the canonical result file name of a combination
func FileName(frequency, blocksize, nob int) string {
	return fmt.Sprintf("result_summary_f%d_bs%d_nob%d%s", frequency, blocksize, nob, resultSuffix)
}

// ParseFileName extracts the combination encoded in a result file name.
// The second return value is false when the name is not a result file.
func ParseFileName(name string) (Combination, bool) {
	if !strings.HasSuffix(name, resultSuffix) {
		return Combination{}, false
	}

	match := resultPattern.FindStringSubmatch(name)
	if match == nil {
		return Combination{}, false
	}

	values := make([]int, 3)
	for i := range values {
		v, err := strconv.Atoi(match[i+1])
		if err != nil {
			// digits overflowing int
			return Combination{}, false
		}
		values[i] = v
	}

	return Combination{Frequency: values[0], Blocksize: values[1], Nob: values[2]}, true
}

// Index is the result of a single directory listing
type Index struct {
	dir          string
	combinations []Combination
}

// Scan lists dir and collects every result file in it
func Scan(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read result directory %s: %w", dir, err)
	}

	index := &Index{dir: dir}
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		c, ok := ParseFileName(entry.Name())
		if !ok {
			skipped++
			log.Debug().
				Str("dir", dir).
				Str("file", entry.Name()).
				Msg("Skipping file that is not a result summary")
			continue
		}
		c.Path = filepath.Join(dir, entry.Name())
		index.combinations = append(index.combinations, c)
	}

	sort.Slice(index.combinations, func(i, j int) bool {
		a, b := index.combinations[i], index.combinations[j]
		if a.Frequency != b.Frequency {
			return a.Frequency < b.Frequency
		}
		if a.Blocksize != b.Blocksize {
			return a.Blocksize < b.Blocksize
		}
		return a.Nob < b.Nob
	})

	log.Debug().
		Str("dir", dir).
		Int("results", len(index.combinations)).
		Int("skipped", skipped).
		Msg("Result directory scanned")

	return index, nil
}

// Dir returns the scanned directory
func (idx *Index) Dir() string { return idx.dir }

// Combinations returns the matched combinations ordered by frequency, blocksize, nob
func (idx *Index) Combinations() []Combination {
	out := make([]Combination, len(idx.combinations))
	copy(out, idx.combinations)
	return out
}

// Set collects the distinct values of every dimension
func (idx *Index) Set() Set {
	frequencies := make(map[int]struct{})
	blocksizes := make(map[int]struct{})
	nobs := make(map[int]struct{})

	for _, c := range idx.combinations {
		frequencies[c.Frequency] = struct{}{}
		blocksizes[c.Blocksize] = struct{}{}
		nobs[c.Nob] = struct{}{}
	}

	return Set{
		Frequency: sortedKeys(frequencies),
		Blocksize: sortedKeys(blocksizes),
		Nob:       sortedKeys(nobs),
	}
}

// ValidNobs returns the nob values that exist for a frequency/blocksize pair.
// An empty, non-nil slice means no experiment was run for the pair.
func (idx *Index) ValidNobs(frequency, blocksize int) []int {
	nobs := make(map[int]struct{})
	for _, c := range idx.combinations {
		if c.Frequency == frequency && c.Blocksize == blocksize {
			nobs[c.Nob] = struct{}{}
		}
	}
	return sortedKeys(nobs)
}

// Lookup finds the result file of an exact combination
func (idx *Index) Lookup(frequency, blocksize, nob int) (Combination, bool) {
	for _, c := range idx.combinations {
		if c.Frequency == frequency && c.Blocksize == blocksize && c.Nob == nob {
			return c, true
		}
	}
	return Combination{}, false
}

// Discover scans dir and returns the distinct values per dimension
func Discover(dir string) (Set, error) {
	idx, err := Scan(dir)
	if err != nil {
		return Set{}, err
	}
	return idx.Set(), nil
}

// ValidNobs re-scans dir and returns the nob values that exist for a frequency/blocksize pair
func ValidNobs(frequency, blocksize int, dir string) ([]int, error) {
	idx, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	return idx.ValidNobs(frequency, blocksize), nil
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

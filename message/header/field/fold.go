package field

import (
	"bytes"
	"errors"
	"io"
)

const (
	DefaultFoldIndent          = " "  // indent placed before folded lines
	DefaultPreferredFoldLength = 78   // we prefer header lines shorter than this
	DefaultForcedFoldLength    = 998  // lines longer than this are broken no matter what

	DoNotFold = -1 // we prefer not to fold at all
)

var (
	// DefaultFoldEncoding is the FoldEncoding used by a header unless another
	// is chosen.
	DefaultFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DefaultPreferredFoldLength,
		DefaultForcedFoldLength,
	}

	// DoNotFoldEncoding is a FoldEncoding that doesn't perform folding.
	DoNotFoldEncoding = &FoldEncoding{
		DefaultFoldIndent,
		DoNotFold,
		DoNotFold,
	}
)

var (
	// ErrFoldIndentSpace is returned by NewFoldEncoding when a non-space/non-tab
	// character is put in the foldIndent setting.
	ErrFoldIndentSpace = errors.New("fold indent may only contains spaces and tabs")

	// ErrFoldLength is returned by NewFoldEncoding when the fold lengths are
	// inconsistent with each other or with the indent.
	ErrFoldLength = errors.New("fold lengths are inconsistent")
)

// FoldEncoding describes how long header lines are broken up on output.
type FoldEncoding struct {
	foldIndent          string
	preferredFoldLength int
	forcedFoldLength    int
}

// NewFoldEncoding creates a new FoldEncoding. The indent must be made of one
// or more spaces or tabs and be shorter than the preferred length, which must
// not exceed the forced length. Pass DoNotFold for both lengths to disable
// folding.
func NewFoldEncoding(foldIndent string, preferredFoldLength, forcedFoldLength int) (*FoldEncoding, error) {
	if foldIndent == "" || bytes.IndexFunc([]byte(foldIndent), isNonSpace) >= 0 {
		return nil, ErrFoldIndentSpace
	}

	if (preferredFoldLength == DoNotFold) != (forcedFoldLength == DoNotFold) {
		return nil, ErrFoldLength
	}

	if preferredFoldLength != DoNotFold {
		if len(foldIndent) >= preferredFoldLength ||
			preferredFoldLength > forcedFoldLength ||
			preferredFoldLength < 3 {
			return nil, ErrFoldLength
		}
	}

	return &FoldEncoding{foldIndent, preferredFoldLength, forcedFoldLength}, nil
}

func isSpace(c rune) bool    { return c == ' ' || c == '\t' }
func isNonSpace(c rune) bool { return !isSpace(c) }

// Fold writes the given unfolded field to out, breaking it into continuation
// lines at whitespace where it runs past the preferred length, and forcing a
// break at the forced length when there is no whitespace to use. Every line
// written, including the last, is terminated with lb.
func (vf *FoldEncoding) Fold(out io.Writer, f []byte, lb []byte) (int64, error) {
	var total int64
	write := func(bs ...[]byte) error {
		for _, b := range bs {
			n, err := out.Write(b)
			total += int64(n)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if vf.preferredFoldLength == DoNotFold || len(f) <= vf.preferredFoldLength {
		return total, write(f, lb)
	}

	indent := []byte(vf.foldIndent)
	line := f
	first := true
	for len(line) > 0 {
		limit := vf.preferredFoldLength
		if !first {
			limit -= len(indent)
		}

		if len(line) <= limit {
			if !first {
				if err := write(indent); err != nil {
					return total, err
				}
			}
			return total, write(line, lb)
		}

		// never break inside the field name on the first line
		start := 0
		if first {
			if colon := bytes.IndexByte(line, ':'); colon >= 0 {
				start = colon + 1
			}
		}

		cut := -1
		if start < limit {
			if ix := bytes.LastIndexFunc(line[start:limit], isSpace); ix > 0 {
				cut = start + ix
			}
		}
		if cut < 0 {
			if ix := bytes.IndexFunc(line[start:], isSpace); ix > 0 && start+ix < vf.forcedFoldLength {
				cut = start + ix
			}
		}
		if cut < 0 {
			if len(line) <= vf.forcedFoldLength {
				cut = len(line)
			} else {
				cut = vf.forcedFoldLength
			}
		}

		if !first {
			if err := write(indent); err != nil {
				return total, err
			}
		}
		if err := write(line[:cut], lb); err != nil {
			return total, err
		}

		line = bytes.TrimLeft(line[cut:], " \t")
		first = false
	}

	return total, nil
}

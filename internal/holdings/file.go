package holdings

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// record is the on-disk shape of one holding in a holdings file.
type record struct {
	Underlying string `json:"underlying"`
	Security   string `json:"security"` // "equity" | "option"
	Right      string `json:"right,omitempty"`
	Style      string `json:"style,omitempty"`
	Strike     string `json:"strike,omitempty"`
	Expiration string `json:"expiration,omitempty"`
	Quantity   int    `json:"quantity"`
}

// FileSource reads a fixed JSON snapshot of holdings from disk. It serves
// the same role mock/mock_data.go's generator serves for the teacher: a
// Source that doesn't reach out to a live broker.
type FileSource struct {
	Path string
}

// NewFileSource builds a FileSource reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Holdings implements Source by decoding the file at s.Path and returning
// only the records matching underlying.
func (s *FileSource) Holdings(_ context.Context, underlying string) ([]models.OptionPosition, error) {
	data, err := os.ReadFile(s.Path) // #nosec G304 -- path is operator-supplied config, not untrusted input
	if err != nil {
		return nil, fmt.Errorf("holdings: reading file %q: %w", s.Path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("holdings: parsing file %q: %w", s.Path, err)
	}

	out := make([]models.OptionPosition, 0, len(records))
	for _, r := range records {
		if r.Underlying != underlying {
			continue
		}
		pos, err := r.toPosition()
		if err != nil {
			return nil, fmt.Errorf("holdings: record for %s: %w", r.Underlying, err)
		}
		out = append(out, pos)
	}
	return out, nil
}

func (r record) toPosition() (models.OptionPosition, error) {
	if r.Security == "equity" {
		return models.OptionPosition{Symbol: models.NewEquitySymbol(r.Underlying), Quantity: r.Quantity}, nil
	}

	right, err := parseRight(r.Right)
	if err != nil {
		return models.OptionPosition{}, err
	}
	style, err := parseStyle(r.Style)
	if err != nil {
		return models.OptionPosition{}, err
	}
	strike, err := decimal.NewFromString(r.Strike)
	if err != nil {
		return models.OptionPosition{}, fmt.Errorf("invalid strike %q: %w", r.Strike, err)
	}
	expiration, err := time.Parse(time.RFC3339, r.Expiration)
	if err != nil {
		return models.OptionPosition{}, fmt.Errorf("invalid expiration %q: %w", r.Expiration, err)
	}

	sym := models.NewOptionSymbol(r.Underlying, right, strike, expiration, style)
	return models.OptionPosition{Symbol: sym, Quantity: r.Quantity}, nil
}

func parseRight(s string) (models.Right, error) {
	switch s {
	case "put", "Put":
		return models.Put, nil
	case "call", "Call":
		return models.Call, nil
	default:
		return 0, fmt.Errorf("unknown right %q", s)
	}
}

func parseStyle(s string) (models.OptionStyle, error) {
	switch s {
	case "", "american", "American":
		return models.American, nil
	case "european", "European":
		return models.European, nil
	default:
		return 0, fmt.Errorf("unknown option style %q", s)
	}
}

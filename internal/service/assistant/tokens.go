package assistant

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter returns the number of tokens text occupies in the prompt.
type TokenCounter func(text string) int

var (
	encodingCache sync.Map
	defaultOnce   sync.Once
	defaultEnc    *tiktoken.Tiktoken
)

// NewTokenCounter counts with the model's tiktoken encoding, falling back to
// cl100k_base and then to a len/4 estimate when no encoding can be loaded.
func NewTokenCounter(model string) TokenCounter {
	return func(text string) int {
		if text == "" {
			return 0
		}
		enc := getEncoding(model)
		if enc == nil {
			return len(text) / 4
		}
		return len(enc.Encode(text, nil, nil))
	}
}

func getEncoding(model string) *tiktoken.Tiktoken {
	base := model
	if idx := strings.LastIndex(model, "/"); idx >= 0 && idx+1 < len(model) {
		base = model[idx+1:]
	}

	if cached, ok := encodingCache.Load(base); ok {
		return cached.(*tiktoken.Tiktoken)
	}

	enc, err := tiktoken.EncodingForModel(base)
	if err != nil {
		enc = getDefaultEncoding()
	}
	if enc != nil {
		encodingCache.Store(base, enc)
	}
	return enc
}

func getDefaultEncoding() *tiktoken.Tiktoken {
	defaultOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			defaultEnc = enc
		}
	})
	return defaultEnc
}

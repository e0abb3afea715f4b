package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/minilang/lang/lexer"
)

// parseCache memoizes programs by source and parse options.
var parseCache sync.Map

// cacheKey combines the source hash with the options that affect the
// resulting tree. The logger does not.
func cacheKey(src []byte, c config) string {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(c.maxDepth)

	return strconv.FormatUint(xxh3.Hash(src)^xxh3.Hash(buf.Bytes()), 36)
}

// ParseReader reads r to the end and parses it, reusing the Program from an
// earlier call with identical source and options. Failed parses are not
// remembered.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	src, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	c := makeConfig(opts...)
	key := cacheKey(src, c)

	if cached, ok := parseCache.Load(key); ok {
		c.logger.DebugContext(ctx, "parse cache hit", slog.String("key", key))

		return cached.(*Program), nil
	}

	prog, err := Parse(ctx, lexer.New(bytes.NewReader(src)), opts...)
	if err != nil {
		return nil, err
	}

	actual, _ := parseCache.LoadOrStore(key, prog)

	return actual.(*Program), nil
}

// ClearCache forgets every program remembered by [ParseReader].
func ClearCache() {
	parseCache.Clear()
}

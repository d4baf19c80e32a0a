package packer

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type bruteForceSelector struct {
	logger *zap.Logger
}

// Option configures the selector returned by New.
type Option func(*bruteForceSelector)

// WithLogger injects a logger for diagnostic output. Rejected lines and excluded
// items are reported at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *bruteForceSelector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Selector that enumerates every subset of the admitted items.
func New(opts ...Option) Selector {
	s := &bruteForceSelector{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bruteForceSelector) Select(line string) (Pack, bool, error) {
	content, ok, err := ParseLine(line)
	if err != nil || !ok {
		return Pack{}, false, err
	}

	if violations := LineViolations(content); len(violations) > 0 {
		s.logger.Debug("line rejected",
			zap.String("line", line),
			zap.Strings("violations", violations),
		)
		return Pack{}, false, nil
	}

	candidates, err := s.candidateSet(content)
	if err != nil {
		return Pack{}, false, err
	}

	pack, err := Best(content.WeightLimit, candidates)
	if err != nil {
		return Pack{}, false, err
	}
	return pack, true, nil
}

// candidateSet parses every token and keeps the admitted items keyed by index.
// When an index repeats, the last token parsed wins.
func (s *bruteForceSelector) candidateSet(content LineContent) (map[int]Item, error) {
	candidates := make(map[int]Item, len(content.Tokens))
	for _, token := range content.Tokens {
		item, err := ParseItem(token)
		if err != nil {
			return nil, err
		}

		if violations := ItemViolations(item, content.WeightLimit); len(violations) > 0 {
			s.logger.Debug("item excluded",
				zap.Int("index", item.Index),
				zap.String("token", token),
				zap.Strings("violations", violations),
			)
			continue
		}

		if _, dup := candidates[item.Index]; dup {
			s.logger.Debug("duplicate index replaced", zap.Int("index", item.Index))
		}
		candidates[item.Index] = item
	}
	return candidates, nil
}

// Best returns the winning pack for the candidate set under weightLimit.
//
// When every candidate fits at once that set is returned without enumeration.
// Otherwise each non-empty subset is compared with IsBetter; if none is feasible
// the result is an empty pack.
func Best(weightLimit decimal.Decimal, candidates map[int]Item) (Pack, error) {
	all := make([]Item, 0, len(candidates))
	ids := make([]int, 0, len(candidates))
	for id, item := range candidates {
		all = append(all, item)
		ids = append(ids, id)
	}

	if full := NewPack(weightLimit, all); full.Feasible() {
		return full, nil
	}

	subsets, err := Combinations(ids)
	if err != nil {
		return Pack{}, err
	}

	var best *Pack
	members := make([]Item, 0, len(ids))
	for _, subset := range subsets {
		members = members[:0]
		for _, id := range subset {
			members = append(members, candidates[id])
		}

		candidate := NewPack(weightLimit, members)
		if IsBetter(best, candidate) {
			best = &candidate
		}
	}

	if best == nil {
		return EmptyPack(weightLimit), nil
	}
	return *best, nil
}

// Package orgname normalizes organism names to their canonical form with
// a pool of gnparser instances.
package orgname

import (
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

// Normalizer converts an organism name to its canonical form.
type Normalizer interface {
	// Canonical returns the simple canonical form of name. Botanical code
	// is used when botanical is true, zoological code otherwise. It returns
	// false when the name cannot be parsed (viruses, surrogates, unparsable
	// strings).
	Canonical(name string, botanical bool) (string, bool)

	// Close releases parsers. The Normalizer is not usable after Close.
	Close()
}

type pool struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
}

// New creates a Normalizer with size parsers per nomenclatural code.
// Zero size means runtime.NumCPU().
func New(size int) Normalizer {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	botCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	zooCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))

	return &pool{
		botanicalCh:  gnparser.NewPool(botCfg, size),
		zoologicalCh: gnparser.NewPool(zooCfg, size),
	}
}

func (p *pool) Canonical(name string, botanical bool) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	ch := p.zoologicalCh
	if botanical {
		ch = p.botanicalCh
	}

	parser := <-ch
	res := parser.ParseName(name)
	ch <- parser

	if !res.Parsed || res.Virus || res.Canonical == nil {
		return "", false
	}
	if res.Canonical.Simple == "" {
		return "", false
	}
	return res.Canonical.Simple, true
}

func (p *pool) Close() {
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}
	if p.zoologicalCh != nil {
		close(p.zoologicalCh)
		for range p.zoologicalCh {
		}
	}
}

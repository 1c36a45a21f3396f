package orgname_test

import (
	"sync"
	"testing"

	"github.com/gnames/accmeta/pkg/orgname"
	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	norm := orgname.New(2)
	defer norm.Close()

	tests := []struct {
		msg       string
		name      string
		botanical bool
		ok        bool
		res       string
	}{
		{"authorship", "Homo sapiens Linnaeus, 1758", false, true, "Homo sapiens"},
		{"subspecies", "Bos taurus taurus", false, true, "Bos taurus taurus"},
		{"botanical rank", "Oryza sativa subsp. japonica", true, true, "Oryza sativa japonica"},
		{"empty", "  ", false, false, ""},
		{"virus", "Tobacco mosaic virus", false, false, ""},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, ok := norm.Canonical(v.name, v.botanical)
			assert.Equal(t, v.ok, ok)
			assert.Equal(t, v.res, res)
		})
	}
}

func TestCanonicalConcurrent(t *testing.T) {
	norm := orgname.New(2)
	defer norm.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(botanical bool) {
			defer wg.Done()
			res, ok := norm.Canonical("Pomatomus saltatrix (Linnaeus, 1766)", botanical)
			assert.True(t, ok)
			assert.Equal(t, "Pomatomus saltatrix", res)
		}(i%2 == 0)
	}
	wg.Wait()
}

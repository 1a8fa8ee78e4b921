// Package scaffold gera documentos de exemplo no schema pair.
package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrInvalidCount é devolvido quando o número de endpoints é menor que 1.
var ErrInvalidCount = errors.New("number of endpoints must be at least 1")

// Generate monta /endpoint1../endpointN, cada um com success 200 e error 500.
// Por padrão a saída é indentada; compact devolve uma única linha.
func Generate(n int, compact bool) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	doc := []byte(`{}`)
	for i := 1; i <= n; i++ {
		base := escapeKey(fmt.Sprintf("/endpoint%d", i))
		fields := []struct {
			path  string
			value interface{}
		}{
			{base + ".method", "GET"},
			{base + ".response.success.status", 200},
			{base + ".response.success.message", fmt.Sprintf("Endpoint %d success", i)},
			{base + ".response.error.status", 500},
			{base + ".response.error.message", fmt.Sprintf("Endpoint %d error", i)},
		}

		var err error
		for _, f := range fields {
			if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
				return nil, fmt.Errorf("erro ao montar %s: %w", f.path, err)
			}
		}
	}

	if compact {
		return pretty.Ugly(doc), nil
	}
	return pretty.Pretty(doc), nil
}

// escapeKey protege os caracteres especiais da sintaxe de path do sjson.
func escapeKey(key string) string {
	r := strings.NewReplacer(`.`, `\.`, `*`, `\*`, `?`, `\?`)
	return r.Replace(key)
}

// Package routes compila as rotas validadas na tabela consultada pelo dispatch.
package routes

import "github.com/raywall/fast-mock-server/pkg/config"

// Table é a coleção imutável de rotas, indexada pelo path.
// O método não faz parte da chave: cada path responde a um único método.
type Table struct {
	defs   []config.RouteDefinition
	byPath map[string]int
}

// NewTable monta a tabela a partir das rotas já validadas. Não faz I/O.
// Se receber paths repetidos, a última definição vence e ocupa a posição da primeira.
func NewTable(defs []config.RouteDefinition) *Table {
	t := &Table{
		defs:   make([]config.RouteDefinition, 0, len(defs)),
		byPath: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if i, ok := t.byPath[def.Path]; ok {
			t.defs[i] = def
			continue
		}
		t.byPath[def.Path] = len(t.defs)
		t.defs = append(t.defs, def)
	}
	return t
}

// Routes devolve uma cópia das rotas na ordem do documento.
func (t *Table) Routes() []config.RouteDefinition {
	out := make([]config.RouteDefinition, len(t.defs))
	copy(out, t.defs)
	return out
}

// Lookup busca a rota pelo path exato.
func (t *Table) Lookup(path string) (config.RouteDefinition, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return config.RouteDefinition{}, false
	}
	return t.defs[i], true
}

func (t *Table) Len() int {
	return len(t.defs)
}

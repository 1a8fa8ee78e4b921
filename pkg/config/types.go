package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Method é o conjunto fechado de verbos HTTP aceitos em uma rota.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// DefaultMethod é aplicado quando a rota não declara "method".
const DefaultMethod = MethodGet

// DefaultStatus é aplicado a "status" (schema single) e a "success.status" (schema pair).
const DefaultStatus = http.StatusOK

// HTTP devolve a constante net/http correspondente ao método.
func (m Method) HTTP() string {
	switch m {
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	default:
		return http.MethodGet
	}
}

// Schema define qual formato de "response" uma implantação aceita.
// É fixo por implantação: nunca é detectado a partir do documento.
type Schema int

const (
	// SchemaSingle: "response" é o corpo devolvido e "status" fica ao lado.
	SchemaSingle Schema = iota
	// SchemaPair: "response" contém os membros "success" e "error".
	SchemaPair
)

func (s Schema) String() string {
	if s == SchemaPair {
		return "pair"
	}
	return "single"
}

// ParseSchema converte o nome do schema ("single" ou "pair").
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "single":
		return SchemaSingle, nil
	case "pair":
		return SchemaPair, nil
	default:
		return SchemaSingle, fmt.Errorf("schema desconhecido: '%s'. Use single ou pair", name)
	}
}

// Outcome indica qual membro de uma rota pair responde a requisição.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeError
)

func (o Outcome) String() string {
	if o == OutcomeError {
		return "error"
	}
	return "success"
}

// Response é o par (status, corpo) já resolvido para um desfecho.
// Body guarda o JSON configurado compactado, preservando ordem de chaves e aninhamento.
type Response struct {
	Status int
	Body   json.RawMessage
}

// RouteDefinition é uma rota validada, com todos os defaults aplicados.
type RouteDefinition struct {
	Path    string
	Method  Method
	DelayMS int
	// Success é a única resposta no schema single.
	Success Response
	// Error só existe no schema pair.
	Error *Response
}

// Paired informa se a rota tem os dois desfechos configurados.
func (d RouteDefinition) Paired() bool {
	return d.Error != nil
}

// Resolve devolve a resposta do desfecho escolhido.
func (d RouteDefinition) Resolve(o Outcome) Response {
	if o == OutcomeError && d.Error != nil {
		return *d.Error
	}
	return d.Success
}

func (d RouteDefinition) Delay() time.Duration {
	return time.Duration(d.DelayMS) * time.Millisecond
}

// Summary monta a linha de log da requisição, ex: "[200] GET /ping (delay: 50ms)".
func (d RouteDefinition) Summary(status int) string {
	line := fmt.Sprintf("[%d] %s %s", status, d.Method, d.Path)
	if d.DelayMS > 0 {
		line += fmt.Sprintf(" (delay: %dms)", d.DelayMS)
	}
	return line
}

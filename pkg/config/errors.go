// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package config

import (
	"fmt"
	"reflect"
	"strings"
)

// ParseError é retornado quando o documento de rotas não é JSON sintaticamente válido.
type ParseError struct {
	// Err é o erro original do decoder.
	Err error
}

// Error inclui a causa original para que o usuário localize o problema.
//
// Exemplo de Retorno: "config file is not a valid JSON: invalid character '}' ..."
func (e *ParseError) Error() string {
	return fmt.Sprintf("config file is not a valid JSON: %v", e.Err)
}

// Unwrap expõe o erro do decoder.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError é retornado quando o JSON é válido mas o topo não é um objeto
// (ex: array, string, número ou null).
type ShapeError struct {
	// Kind descreve o tipo encontrado no topo do documento.
	Kind string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("config file is not a valid JSON object (got %s)", e.Kind)
}

// Issue é uma violação individual encontrada durante a validação.
type Issue struct {
	// Path é a rota (chave do topo) onde a violação ocorreu.
	Path string
	// Field é o campo da rota (ex: "method", "response.error.status").
	Field string
	// Message é o texto apresentado ao usuário.
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Path, i.Field, i.Message)
}

// ValidationError agrega todas as violações do documento, não apenas a primeira.
type ValidationError struct {
	Issues []Issue
}

// Messages devolve apenas os textos, na ordem em que foram encontrados.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

// Error junta as mensagens com ", ".
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), ", ")
}

// FieldError é retornado quando uma variável de ambiente não pode ser
// convertida para o tipo do campo de Settings.
type FieldError struct {
	// FieldName é o nome do campo da struct (ex: "Port").
	FieldName string
	// EnvVar é o nome da variável de ambiente (ex: "MOCK_PORT").
	EnvVar string
	// Value é o valor bruto que causou o erro.
	Value string
	// Err é o erro de conversão original (ex: *strconv.NumError).
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: error setting field %s from env %s=%s: %v",
		e.FieldName, e.EnvVar, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError é retornado quando um campo com tag "env" tem um tipo
// que o carregador não sabe converter.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("config: unsupported type %s", e.Type)
}

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

package loader

import "fmt"

// NotFoundError indica que a fonte não existe (arquivo, objeto, item, parâmetro ou chave).
type NotFoundError struct {
	Source string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found at %s", e.Source)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// UnsupportedSourceError indica um esquema de URI desconhecido.
type UnsupportedSourceError struct {
	Scheme string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("fonte de configuração não suportada: %s://", e.Scheme)
}

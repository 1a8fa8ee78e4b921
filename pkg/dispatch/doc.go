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
//
// Package dispatch liga cada rota da tabela a um endpoint HTTP e responde às
// requisições com o corpo e o status configurados.
//
// Fluxo por requisição:
//  1. Escolhe o desfecho: sempre "success", exceto quando o servidor foi
//     iniciado com Randomize e a rota tem o par success/error; nesse caso é
//     sorteado (50/50) de forma independente a cada requisição.
//  2. Resolve (status, corpo) do desfecho.
//  3. Registra uma linha de log estruturada, ex: "[200] GET /ping (delay: 50ms)".
//  4. Aguarda o delay configurado dentro da goroutine da requisição, sem
//     bloquear as demais.
//  5. Escreve o status, "Content-Type: application/json" e o corpo.
//
// Requisições para (método, path) não configurados ficam a cargo do roteador
// (404, ou 405 quando o path existe com outro método).
//
// Exemplo:
//
//	validator := config.NewValidator(config.SchemaPair)
//	defs, err := validator.Validate(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := dispatch.New(routes.NewTable(defs), dispatch.Options{
//	    Host:      "localhost",
//	    Port:      3000,
//	    Randomize: true,
//	})
//	if err := engine.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package dispatch

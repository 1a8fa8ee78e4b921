// Package mockserver é um servidor HTTP mock declarativo: um documento JSON (ou
// YAML) mapeia paths para respostas, é validado por inteiro e cada entrada vira
// um endpoint que devolve corpo e status fixos, opcionalmente após um delay e,
// no schema pair, sorteando entre a resposta de sucesso e a de erro.
//
// Visão Geral:
// 1. Configuração (pkg/config): Settings via variáveis de ambiente, tipos de rota
// e o ConfigValidator, que acumula todas as violações do documento.
// 2. Fontes (pkg/loader): arquivo local, S3, DynamoDB, SSM, Secrets Manager e Redis.
// 3. Tabela (pkg/routes): coleção imutável de rotas, na ordem do documento.
// 4. Dispatch (pkg/dispatch): roteamento gorilla/mux, sorteio, delay e escrita.
// 5. Transporte (pkg/transport): correlation id, latência e adaptador Lambda.
//
// Schemas:
//
// single (padrão):
//
//	{
//	  "/ping":  {"response": {"msg": "pong"}},
//	  "/users": {"method": "POST", "status": 201, "delay": 200, "response": {"id": 1}}
//	}
//
// pair:
//
//	{
//	  "/boom": {
//	    "delay": 50,
//	    "response": {
//	      "success": {"msg": "ok"},
//	      "error":   {"status": 503, "msg": "down"}
//	    }
//	  }
//	}
//
// Exemplo de uso da CLI:
//
//	mockserver start -c routes.json
//	mockserver start -c routes.json --schema pair --randomize
//	mockserver validate -c s3://bucket/routes.yaml
//	mockserver generate --endpoints 3
package mockserver

package config

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Mensagens exibidas ao usuário. Os textos fazem parte do contrato da CLI.
const (
	MsgRouteMustStartWithSlash = "Route must start with /"
	MsgInvalidMethod           = "Invalid method!"
	MsgMissingResponse         = "Please provide response for all the routes."
	MsgMissingSuccess          = "Please provide success response for all the routes."
	MsgMissingError            = "Please provide error response for all the routes."
	MsgMissingErrorStatus      = "Please provide status for error response."
	MsgRouteNotObject          = "Route definition must be an object"
	MsgResponseNotObject       = "Response must be an object with success and error"
)

// MaxDelayMS é o maior delay representável em time.Duration.
const MaxDelayMS = math.MaxInt64 / int64(time.Millisecond)

// routeRules concentra as regras estruturais declaradas via tags.
// Campos com tipo errado no JSON já geram Issue antes e recebem um valor neutro aqui.
// Status 1xx fica de fora: net/http trata como resposta informativa e envia 200 em seguida.
// O limite de Delay é MaxDelayMS (ver TestMaxDelayTag).
type routeRules struct {
	Method      string `validate:"oneof=GET POST PUT DELETE"`
	Delay       int64  `validate:"gte=0,lte=9223372036854"`
	Status      int    `validate:"gte=200,lte=599"`
	ErrorStatus *int   `validate:"omitempty,gte=200,lte=599"`
	statusField string
}

// ruleMessages traduz o campo (ou campo.tag) que falhou para a mensagem do contrato.
var ruleMessages = map[string]string{
	"Method":      MsgInvalidMethod,
	"Delay":       "Delay must be a non-negative integer",
	"Delay.lte":   fmt.Sprintf("Delay must not exceed %d ms", MaxDelayMS),
	"Status":      "Status must be a valid HTTP status code",
	"ErrorStatus": "Error status must be a valid HTTP status code",
}

func messageFor(e validator.FieldError) string {
	if msg, ok := ruleMessages[e.Field()+"."+e.Tag()]; ok {
		return msg
	}
	return ruleMessages[e.Field()]
}

// ConfigValidator valida documentos de rotas para um Schema fixo.
type ConfigValidator struct {
	validate *validator.Validate
	schema   Schema
}

// NewValidator cria um validador para o schema da implantação.
func NewValidator(schema Schema) *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
		schema:   schema,
	}
}

// Schema devolve o schema que o validador aplica.
func (cv *ConfigValidator) Schema() Schema {
	return cv.schema
}

// Validate transforma o JSON bruto em rotas tipadas, na ordem do documento.
//
// A validação é tudo-ou-nada: qualquer violação devolve um *ValidationError com
// todas as Issues encontradas e nenhuma rota.
func (cv *ConfigValidator) Validate(raw []byte) ([]RouteDefinition, error) {
	// 1. Sintaxe
	if err := json.Unmarshal(raw, new(json.RawMessage)); err != nil {
		return nil, &ParseError{Err: err}
	}

	// 2. Formato do topo
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, &ShapeError{Kind: kindOf(root)}
	}

	// 3. Regras por rota, acumulando tudo
	var (
		defs   []RouteDefinition
		issues []Issue
		seen   = make(map[string]bool)
	)
	root.ForEach(func(key, value gjson.Result) bool {
		path := key.String()
		if seen[path] {
			issues = append(issues, Issue{Path: path, Message: fmt.Sprintf("Duplicate route %s", path)})
			return true
		}
		seen[path] = true

		def, routeIssues := cv.validateRoute(path, value)
		if len(routeIssues) > 0 {
			issues = append(issues, routeIssues...)
			return true
		}
		defs = append(defs, def)
		return true
	})

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return defs, nil
}

func (cv *ConfigValidator) validateRoute(path string, value gjson.Result) (RouteDefinition, []Issue) {
	var issues []Issue
	add := func(field, msg string) {
		issues = append(issues, Issue{Path: path, Field: field, Message: msg})
	}

	// A chave vem primeiro, como no documento
	if err := cv.validate.Var(path, "startswith=/"); err != nil {
		add("", MsgRouteMustStartWithSlash)
	}

	if !value.IsObject() {
		add("", MsgRouteNotObject)
		return RouteDefinition{}, issues
	}

	rules := routeRules{Method: string(DefaultMethod), Status: DefaultStatus, statusField: "status"}

	// check aplica as regras das tags apenas aos campos informados
	check := func(fields ...string) {
		err := cv.validate.StructPartial(rules, fields...)
		if err == nil {
			return
		}
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				add(fieldFor(e.Field(), rules), messageFor(e))
			}
			return
		}
		add("", fmt.Sprintf("erro de validação estrutural: %v", err))
	}

	if m := value.Get("method"); m.Exists() {
		if m.Type != gjson.String {
			add("method", MsgInvalidMethod)
		} else {
			rules.Method = m.Str
			check("Method")
		}
	}

	delay, msg := readInt(value, "delay", 0)
	if msg != "" {
		add("delay", msg)
	} else {
		rules.Delay = delay
		check("Delay")
	}

	def := RouteDefinition{Path: path}

	if cv.schema == SchemaSingle {
		status, msg := readInt(value, "status", DefaultStatus)
		if msg != "" {
			add("status", msg)
		} else {
			rules.Status = int(status)
			check("Status")
		}
	}

	response := value.Get("response")
	switch {
	case !response.Exists():
		add("response", MsgMissingResponse)
	case cv.schema == SchemaPair:
		issues = append(issues, cv.readPair(path, response, &rules, &def)...)
		check("Status", "ErrorStatus")
	default:
		def.Success = Response{Status: rules.Status, Body: compact(response.Raw)}
	}

	if len(issues) > 0 {
		return RouteDefinition{}, issues
	}

	def.Method = Method(rules.Method)
	def.DelayMS = int(rules.Delay)
	return def, nil
}

// readPair lê os membros success/error do schema pair.
func (cv *ConfigValidator) readPair(path string, response gjson.Result, rules *routeRules, def *RouteDefinition) []Issue {
	var issues []Issue
	add := func(field, msg string) {
		issues = append(issues, Issue{Path: path, Field: field, Message: msg})
	}

	if !response.IsObject() {
		add("response", MsgResponseNotObject)
		return issues
	}

	rules.statusField = "response.success.status"

	success := response.Get("success")
	if !success.Exists() || !success.IsObject() {
		add("response.success", MsgMissingSuccess)
	} else {
		status, msg := readInt(success, "status", DefaultStatus)
		if msg != "" {
			add("response.success.status", msg)
		} else {
			rules.Status = int(status)
		}

		body := compact(success.Raw)
		if !success.Get("status").Exists() {
			// O default também aparece no corpo emitido
			if withStatus, err := sjson.SetBytes(body, "status", DefaultStatus); err == nil {
				body = withStatus
			}
		}
		def.Success = Response{Status: rules.Status, Body: body}
	}

	errMember := response.Get("error")
	if !errMember.Exists() || !errMember.IsObject() {
		add("response.error", MsgMissingError)
		return issues
	}

	if !errMember.Get("status").Exists() {
		add("response.error.status", MsgMissingErrorStatus)
		return issues
	}

	status, msg := readInt(errMember, "status", 0)
	if msg != "" {
		add("response.error.status", msg)
		return issues
	}
	errStatus := int(status)
	rules.ErrorStatus = &errStatus
	def.Error = &Response{Status: errStatus, Body: compact(errMember.Raw)}
	return issues
}

// readInt lê um inteiro opcional. msg vem preenchida quando o campo existe com tipo inválido.
// Valores fora de int64 saturam nos extremos para que as regras de faixa os rejeitem.
func readInt(parent gjson.Result, key string, def int64) (int64, string) {
	v := parent.Get(key)
	if !v.Exists() {
		return def, ""
	}
	if v.Type != gjson.Number {
		return def, fmt.Sprintf("Expected number for %s", key)
	}
	if v.Num != math.Trunc(v.Num) {
		return def, fmt.Sprintf("Expected integer for %s", key)
	}
	switch {
	case v.Num >= math.MaxInt64:
		return math.MaxInt64, ""
	case v.Num <= math.MinInt64:
		return math.MinInt64, ""
	}
	return v.Int(), ""
}

func fieldFor(structField string, rules routeRules) string {
	switch structField {
	case "Method":
		return "method"
	case "Delay":
		return "delay"
	case "Status":
		return rules.statusField
	case "ErrorStatus":
		return "response.error.status"
	default:
		return structField
	}
}

func compact(raw string) json.RawMessage {
	return json.RawMessage(pretty.Ugly([]byte(raw)))
}

func kindOf(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.Type == gjson.String:
		return "string"
	case r.Type == gjson.Number:
		return "number"
	case r.IsBool():
		return "boolean"
	default:
		return "null"
	}
}

package handlers_test

import (
	"encoding/json"
	"strings"

	"github.com/SscSPs/account_ledger/cmd/docs"
)

type swaggerDoc struct {
	BasePath string                                `json:"basePath"`
	Paths    map[string]map[string]json.RawMessage `json:"paths"`
}

func (suite *HandlerTestSuite) TestSwaggerDoc_DeclaresEveryRoute() {
	var doc swaggerDoc
	suite.Require().NoError(json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	for _, route := range suite.router.Routes() {
		if route.Path == "/health" {
			continue // liveness check, not part of the API docs
		}
		path := strings.TrimPrefix(route.Path, doc.BasePath)
		if path == "" {
			path = "/"
		}
		path = strings.ReplaceAll(path, ":number", "{number}")

		operations, ok := doc.Paths[path]
		if suite.True(ok, "route %s %s has no swagger path %s", route.Method, route.Path, path) {
			suite.Contains(operations, strings.ToLower(route.Method), "route %s %s", route.Method, route.Path)
		}
	}
}

func (suite *HandlerTestSuite) TestSwaggerDoc_RootListsEndpoints() {
	var doc swaggerDoc
	suite.Require().NoError(json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	suite.Contains(doc.Paths, "/")
	suite.Contains(doc.Paths["/"], "get")
}

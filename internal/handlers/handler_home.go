package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type endpointDoc struct {
	Description   string         `json:"description"`
	SamplePayload map[string]any `json:"sample_payload,omitempty"`
}

var endpointIndex = map[string]endpointDoc{
	"GET /health":                                {Description: "Health check"},
	"GET /api/v1/accounts":                       {Description: "Get all bank accounts"},
	"POST /api/v1/accounts":                      {Description: "Open new bank account", SamplePayload: map[string]any{"owner": "John Doe"}},
	"GET /api/v1/accounts/{number}":              {Description: "Get bank account information"},
	"DELETE /api/v1/accounts/{number}":           {Description: "Close bank account"},
	"POST /api/v1/accounts/{number}/deposit":     {Description: "Deposit amount into bank account", SamplePayload: map[string]any{"amount": 123.45}},
	"POST /api/v1/accounts/{number}/withdrawal":  {Description: "Withdrawal amount from bank account", SamplePayload: map[string]any{"amount": 123.45}},
	"POST /api/v1/accounts/{number}/transfer":    {Description: "Transfer amount into another bank account", SamplePayload: map[string]any{"toNumber": "<account number>", "amount": 123.45}},
	"GET /api/v1/accounts/{number}/transfer-fee": {Description: "Preview the fee of a transfer (query: toNumber)"},
	"GET /api/v1/accounts/{number}/daily-limit":  {Description: "Daily transfer limit and amount transferred today"},
}

// getHome godoc
// @Summary List available endpoints.
// @Description Describes every endpoint of the API with sample payloads.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, endpointIndex)
}

package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Trivia Night API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the live trivia night. Game events flow over the websocket at /ws; this HTTP surface covers auth and operations.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Game websocket")
	getWS.SetDescription("Upgrades to the realtime game connection. Clients join with a session token and receive phase, timer and result events.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/auth/identity
	postIdentity, _ := r.NewOperationContext(http.MethodPost, "/api/auth/identity")
	postIdentity.SetSummary("Submit identity")
	postIdentity.SetDescription("Checks the identity against the employee directory and returns a temporary credential.")
	postIdentity.AddReqStructure(IdentityRequest{})
	postIdentity.AddRespStructure(IdentityResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postIdentity.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postIdentity.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postIdentity)

	// POST /api/auth/session
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/auth/session")
	postSession.SetSummary("Exchange credential for session token")
	postSession.SetDescription("Verifies the arrival-period claim and exchanges the temporary credential for a session token.")
	postSession.AddReqStructure(SessionRequest{})
	postSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postSession)

	// POST /api/auth/verify
	postVerify, _ := r.NewOperationContext(http.MethodPost, "/api/auth/verify")
	postVerify.SetSummary("Verify session token")
	postVerify.SetDescription("Reports whether a session token is still valid.")
	postVerify.AddReqStructure(VerifyRequest{})
	postVerify.AddRespStructure(VerifyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postVerify)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate the host with a password and receive a session token for the admin identity.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminLoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postLogin)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}

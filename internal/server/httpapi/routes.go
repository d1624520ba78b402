package httpapi

const (
	RouteStatus     = "GET /status"
	RouteStats      = "GET /stats"
	RouteUsers      = "POST /users"
	RouteConnect    = "GET /connect"
	RouteDisconnect = "GET /disconnect"
	RouteMe         = "GET /users/me"
	RouteFileCreate = "POST /files"
	RouteFileGet    = "GET /files/{id}"
	RouteFileList   = "GET /files"
	RoutePublish    = "PUT /files/{id}/publish"
	RouteUnpublish  = "PUT /files/{id}/unpublish"
	RouteFileData   = "GET /files/{id}/data"
	RouteMetrics    = "GET /metrics"
)

func (s *Server) initRoutes() {
	s.registerRoute(RouteStatus, s.handleStatus)
	s.registerRoute(RouteStats, s.handleStats)

	s.registerRoute(RouteUsers, s.handleRegister)
	s.registerRoute(RouteConnect, s.handleConnect)
	s.registerRoute(RouteDisconnect, s.handleDisconnect, s.RequireToken)
	s.registerRoute(RouteMe, s.handleMe, s.RequireToken)

	s.registerRoute(RouteFileCreate, s.handleCreateFile, s.RequireToken)
	s.registerRoute(RouteFileGet, s.handleGetFile, s.RequireToken)
	s.registerRoute(RouteFileList, s.handleListFiles, s.RequireToken)
	s.registerRoute(RoutePublish, s.handlePublish, s.RequireToken)
	s.registerRoute(RouteUnpublish, s.handleUnpublish, s.RequireToken)
	s.registerRoute(RouteFileData, s.handleFileData, s.OptionalToken)

	if s.metrics != nil {
		s.registerRoute(RouteMetrics, s.metrics.Handler().ServeHTTP)
	}
}

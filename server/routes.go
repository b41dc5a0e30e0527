package server

import "net/http"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteLogin   = "/api/login"
	RouteLogout  = "/api/logout"
	RouteSession = "/api/session"

	// Catalog Routes
	RouteBooks  = "/api/books"
	RouteBookID = "/api/books/{id}"

	// Circulation Routes
	RouteBorrow   = "/api/borrow"
	RouteReturn   = "/api/borrow/{id}/return"
	RoutePayments = "/api/fines/{id}/payments"
)

func (s *Server) initRoutes() {
	// Auth routes carry only the base middleware; everything else sits
	// behind the session gate.
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteBooks, ChainMiddleware(s.ListBooksHandler(), s.protectedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBooks, ChainMiddleware(s.CreateBookHandler(), s.protectedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteBookID, ChainMiddleware(s.GetBookHandler(), s.protectedAPIMiddleware()...))

	s.RegisterRouteHandler("POST "+RouteBorrow, ChainMiddleware(s.BorrowHandler(), s.protectedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteReturn, ChainMiddleware(s.ReturnHandler(), s.protectedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RoutePayments, ChainMiddleware(s.PayFineHandler(), s.protectedAPIMiddleware()...))
}

func (s *Server) protectedAPIMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return append(s.APIMiddleware(), s.RequireSession())
}

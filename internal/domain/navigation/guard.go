// Package navigation implementa la decisión de guardia previa a cada
// transición de página del panel: dado el estado de autenticación, los
// requisitos de la ruta destino y el estado de inicialización del sistema,
// produce exactamente una decisión (permitir o redirigir).
//
// Evaluate es una función pura: toda consulta externa (inicialización,
// resolución de sesión) ocurre antes, y su resultado entra como Input. Eso
// garantiza el orden requerido — el chequeo de inicialización se completa
// antes de cualquier decisión basada en autenticación — y hace la guardia
// determinista y trivial de testear.
package navigation

// Rutas de destino de las redirecciones.
const (
	RouteSetup     = "/setup"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

// RouteRules requisitos declarados por una ruta del panel.
type RouteRules struct {
	RequiresAuth       bool
	RequiresNoAuth     bool
	RequiresAdmin      bool
	AllowUninitialized bool
}

// Action resultado de la evaluación.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
)

// Decision decisión final de la guardia. Toda evaluación termina en una:
// ningún camino queda sin resolver.
type Decision struct {
	Action      Action
	Target      string // destino de la redirección cuando Action == ActionRedirect
	ForceLogout bool   // la sesión debe cerrarse antes de redirigir
}

func allow() Decision                 { return Decision{Action: ActionAllow} }
func redirect(target string) Decision { return Decision{Action: ActionRedirect, Target: target} }

// Input estado ya resuelto sobre el que decide la guardia.
type Input struct {
	Path  string // ruta destino de la navegación
	Rules RouteRules

	SystemInitialized bool // resultado del chequeo de inicialización (fail-closed: false si falló)
	Authenticated     bool
	ProfileResolved   bool // la identidad autenticada tiene un perfil cargado
	IsAdmin           bool // rol admin o super_admin
}

// Evaluate aplica las reglas en orden estricto; gana la primera que coincide.
//
//  1. Sistema sin inicializar y la ruta no lo permite → /setup.
//  2. Destino /setup con sistema ya inicializado → /login.
//  3. Ruta requiere autenticación y no hay sesión → /login.
//  4. Ruta requiere no-autenticación y hay sesión → /dashboard.
//  5. Ruta requiere admin y el autenticado no lo es → /dashboard (degradación
//     silenciosa, no una página de error).
//  6. Autenticado sin perfil resoluble → cerrar sesión y /login.
//  7. Permitir.
func Evaluate(in Input) Decision {
	targetIsSetup := in.Path == RouteSetup

	if !in.Rules.AllowUninitialized && !in.SystemInitialized && !targetIsSetup {
		return redirect(RouteSetup)
	}

	if targetIsSetup && in.SystemInitialized {
		return redirect(RouteLogin)
	}

	if in.Rules.RequiresAuth && !in.Authenticated {
		return redirect(RouteLogin)
	}

	if in.Rules.RequiresNoAuth && in.Authenticated {
		return redirect(RouteDashboard)
	}

	if in.Rules.RequiresAdmin && in.Authenticated && !in.IsAdmin {
		return redirect(RouteDashboard)
	}

	if in.Authenticated && !in.ProfileResolved {
		return Decision{Action: ActionRedirect, Target: RouteLogin, ForceLogout: true}
	}

	return allow()
}

// FailClosed decisión de recuperación cuando la evaluación no pudo completarse
// (p. ej. falló la resolución de la sesión): redirigir a login.
func FailClosed() Decision {
	return redirect(RouteLogin)
}

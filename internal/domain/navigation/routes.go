package navigation

import "strings"

// routeTable requisitos por ruta del panel. Las subrutas (/recibos/:id,
// /usuarios/:id, /reportes/analytics) heredan los requisitos del prefijo.
var routeTable = map[string]RouteRules{
	RouteSetup:       {RequiresNoAuth: true, AllowUninitialized: true},
	RouteLogin:       {RequiresNoAuth: true},
	RouteDashboard:   {RequiresAuth: true},
	"/recibos":       {RequiresAuth: true},
	"/usuarios":      {RequiresAuth: true},
	"/reportes":      {RequiresAuth: true},
	"/configuracion": {RequiresAuth: true, RequiresAdmin: true},
	"/auditoria":     {RequiresAuth: true},
	"/perfil":        {RequiresAuth: true},
}

// RulesFor devuelve los requisitos de la ruta destino. Busca coincidencia
// exacta y luego por prefijo (rutas hijas). Una ruta desconocida no declara
// requisitos: la guardia solo le aplica la regla de inicialización.
func RulesFor(path string) RouteRules {
	path = normalize(path)
	if rules, ok := routeTable[path]; ok {
		return rules
	}
	for prefix, rules := range routeTable {
		if strings.HasPrefix(path, prefix+"/") {
			return rules
		}
	}
	return RouteRules{}
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

package dto

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el perfil autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NavigationCheckResponse decisión de la guardia de navegación para el cliente.
type NavigationCheckResponse struct {
	Allow       bool   `json:"allow"`
	RedirectTo  string `json:"redirect_to,omitempty"`
	ForceLogout bool   `json:"force_logout,omitempty"`
}

// SetupStatusResponse estado de inicialización del sistema.
type SetupStatusResponse struct {
	Initialized        bool `json:"inicializado"`
	NeedsInitialSetup  bool `json:"requiere_configuracion"`
	UserCount          int  `json:"total_usuarios"`
}

// FirstAdminRequest entrada del flujo de bootstrap. El rol no se acepta del
// cliente: el primer usuario siempre es super_admin.
type FirstAdminRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"nombre_completo" validate:"required,min=1,max=200"`
	Phone      string `json:"telefono" validate:"omitempty,max=30"`
	Department string `json:"departamento" validate:"omitempty,max=100"`
	Notes      string `json:"notas" validate:"omitempty,max=500"`
}

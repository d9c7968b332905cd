package v1

// Inline messages rendered on the index view. The interface is Spanish.
const (
	msgTryAgain         = "Error, por favor vuelva a intentarlo."
	msgPasswordTooShort = "Error, la contraseña debe tener mínimo 8 caracteres."
	msgWrongPassword    = "Contraseña incorrecta"
	msgUserExists       = "Error, el usuario ya existe."
)

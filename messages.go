package goSession

// User-facing redirect messages. They are part of the page contract and are
// matched verbatim by the presentation layer.
const (
	MsgSessionMissing = "Sessão não encontrada. Por favor, faça login novamente"
	MsgTokenInvalid   = "Token inválido. Por favor, faça login novamente"
	MsgSessionExpired = "Sua sessão expirou. Por favor, faça login novamente."
	MsgUserInactive   = "Usuário inativo. Entre em contato com o administrador"

	MsgAccessDeniedLogin = "Acesso negado. Faça login novamente"
	msgRoleDeniedPrefix  = "Acesso negado. Apenas "
	msgRoleDeniedSuffix  = " podem acessar esta página"

	MsgFillAllFields    = "Por favor, preencha todos os campos"
	MsgUsernameEmpty    = "O usuário não pode estar vazio"
	MsgPasswordEmpty    = "A senha não pode estar vazia"
	MsgUserNotFound     = "Usuário não encontrado"
	MsgAdminOnly        = "Acesso negado. Apenas administradores podem acessar esta área"
	MsgWrongPassword    = "Senha incorreta"
	msgWelcomePrefix    = "Login realizado com sucesso! Bem-vindo, "
	MsgDuplicateSession = "Erro de duplicação no banco de dados"
	MsgLoginFailed      = "Erro ao processar login. Tente novamente mais tarde"

	MsgLogoutOK      = "Logout realizado com sucesso. Até logo!"
	MsgLogoutPartial = "Sessão encerrada, mas ocorreu um erro ao processar o logout"
)

// RoleDeniedMessage names the roles allowed through, for example
// "Acesso negado. Apenas Administrador ou Diretor podem acessar esta página".
func RoleDeniedMessage(names string) string {
	return msgRoleDeniedPrefix + names + msgRoleDeniedSuffix
}

// WelcomeMessage greets name after a successful login.
func WelcomeMessage(name string) string {
	return msgWelcomePrefix + name
}

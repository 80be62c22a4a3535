package desensitize

const mask = "******"

var (
	// BearerRule Authorization 头中的令牌 (Bearer eyJhbGci... -> Bearer ******)
	BearerRule = MustNewContentRule(
		"bearer",
		`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`,
		"${1}"+mask,
	)

	// JWTRule 日志中裸露的 JWT
	JWTRule = MustNewContentRule(
		"jwt",
		`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`,
		mask,
	)

	// EmailRule 邮箱 (admin@divinalaser.com -> a***n@d***.com)
	EmailRule = MustNewContentRule(
		"email",
		`\b([A-Za-z0-9])[A-Za-z0-9._%+-]*([A-Za-z0-9])@([A-Za-z0-9])[A-Za-z0-9.-]*\.([A-Za-z]{2,})\b`,
		"$1***$2@$3***.$4",
	)

	PasswordRule          = MustNewFieldRule("password", "password", mask)
	TokenRule             = MustNewFieldRule("token", "token", mask)
	AccessTokenRule       = MustNewFieldRule("access_token", "access_token", mask)
	RefreshTokenRule      = MustNewFieldRule("refresh_token", "refresh_token", mask)
	RefreshTokenCamelRule = MustNewFieldRule("refreshToken", "refreshToken", mask)
)

// BuiltinRules 返回默认启用的内置规则，邮箱规则需要显式添加
func BuiltinRules() []Rule {
	return []Rule{
		PasswordRule,
		TokenRule,
		AccessTokenRule,
		RefreshTokenRule,
		RefreshTokenCamelRule,
		BearerRule,
		JWTRule,
	}
}

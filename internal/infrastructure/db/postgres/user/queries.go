package user

const (
	columns = `uuid::text, email, password_hash, full_name, email_verified_at, created_at`

	SelectUserByID = `
		SELECT ` + columns + `
		FROM users
		WHERE uuid = $1
	`
	SelectUserByEmail = `
		SELECT ` + columns + `
		FROM users
		WHERE email = $1
	`
	InsertUser = `
		INSERT INTO users (email, password_hash, full_name, verify_token_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns + `
	`
	VerifyUserEmail = `
		UPDATE users
		SET email_verified_at = now(),
		    verify_token_hash = NULL
		WHERE verify_token_hash = $1 AND email_verified_at IS NULL
		RETURNING ` + columns + `
	`
)

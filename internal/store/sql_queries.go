package store

import (
	sq "github.com/Masterminds/squirrel"
)

// psql builds statements with PostgreSQL positional placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	userColumns = `id, name, surname, email, phone, address, role, password_hash,
		reset_password_token, reset_password_expire, active, registered_at, created_at, updated_at`

	createUser = `INSERT INTO users (id, name, surname, email, phone, address, role, password_hash, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns + `;`

	findUserByID = `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1;`

	findUserByEmail = `SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1);`

	findUserByResetToken = `SELECT ` + userColumns + `
		FROM users
		WHERE reset_password_token = $1 AND reset_password_expire > $2;`

	updateUserPassword = `UPDATE users
		SET password_hash = $2, reset_password_token = NULL, reset_password_expire = NULL, updated_at = NOW()
		WHERE id = $1;`

	setUserResetToken = `UPDATE users
		SET reset_password_token = $2, reset_password_expire = $3, updated_at = NOW()
		WHERE id = $1;`

	clearUserResetToken = `UPDATE users
		SET reset_password_token = NULL, reset_password_expire = NULL, updated_at = NOW()
		WHERE id = $1;`
)

const (
	groupColumns = `id, name, description, monthly_amount, owner_id, active, regulation, created_at, updated_at`

	createGroup = `INSERT INTO groups (id, name, description, monthly_amount, owner_id, active, regulation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + groupColumns + `;`

	findGroupByID = `SELECT ` + groupColumns + `
		FROM groups
		WHERE id = $1;`

	findGroupMembers = `SELECT user_id
		FROM group_members
		WHERE group_id = $1
		ORDER BY added_at, user_id;`

	deleteGroup = `DELETE FROM groups WHERE id = $1;`

	addGroupMember = `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2);`

	removeGroupMember = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2;`
)

const (
	cotisationColumns = `id, member_id, amount, month, year, payment_date, payment_method,
		payment_reference, status, comment, created_at, updated_at`

	createCotisation = `INSERT INTO cotisations
		(id, member_id, amount, month, year, payment_date, payment_method, payment_reference, status, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + cotisationColumns + `;`

	findCotisationByID = `SELECT ` + cotisationColumns + `
		FROM cotisations
		WHERE id = $1;`

	cotisationExistsForPeriod = `SELECT EXISTS (
		SELECT 1 FROM cotisations WHERE member_id = $1 AND month = $2 AND year = $3
	);`

	deleteCotisation = `DELETE FROM cotisations WHERE id = $1;`
)

const (
	transactionColumns = `id, type, amount, description, transaction_date, category, cotisation_id,
		member_id, group_id, created_by, attachment, status, created_at, updated_at`

	createTransaction = `INSERT INTO transactions
		(id, type, amount, description, transaction_date, category, cotisation_id, member_id, group_id, created_by, attachment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + transactionColumns + `;`

	findTransactionByID = `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1;`

	findTransactionByCotisation = `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE cotisation_id = $1
		ORDER BY created_at
		LIMIT 1;`

	setTransactionAttachment = `UPDATE transactions
		SET attachment = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + transactionColumns + `;`

	deleteTransaction = `DELETE FROM transactions WHERE id = $1;`

	deleteTransactionsByCotisation = `DELETE FROM transactions WHERE cotisation_id = $1;`
)

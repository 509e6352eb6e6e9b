package queries

// Schema for the on-device store. No foreign keys on purpose: loans and
// fees arrive in whatever order the route download emits them.
const SCHEMA = `
	CREATE TABLE IF NOT EXISTS loan (
		id TEXT PRIMARY KEY,
		principal REAL NOT NULL,
		interest_rate REAL NOT NULL,
		installments INTEGER NOT NULL,
		originated TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_nic TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS scheduled_fee (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		loan_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		paid_amount REAL NOT NULL DEFAULT 0,
		due_date TEXT NOT NULL,
		UNIQUE (loan_id, seq)
	);
	CREATE TABLE IF NOT EXISTS new_collection (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		loan_id TEXT NOT NULL,
		fee_seq INTEGER NOT NULL,
		amount REAL NOT NULL,
		day INTEGER NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		hour INTEGER NOT NULL,
		minute INTEGER NOT NULL,
		second INTEGER NOT NULL,
		timezone TEXT NOT NULL,
		installment INTEGER NOT NULL,
		installment_count INTEGER NOT NULL,
		company_name TEXT NOT NULL,
		company_phone TEXT NOT NULL,
		client_name TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS user (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'agent'
	);`

const UPSERT_LOAN = `
	REPLACE INTO loan (id, principal, interest_rate, installments, originated, customer_id, customer_name, customer_nic)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const UPSERT_FEE = `
	REPLACE INTO scheduled_fee (loan_id, seq, paid_amount, due_date)
	VALUES (?, ?, ?, ?)`

const LOAN_BY_ID = `
	SELECT L.id, L.principal, L.interest_rate, L.installments, L.originated, L.customer_id, L.customer_name, L.customer_nic
	FROM loan L
	WHERE L.id = ?`

const ALL_LOANS = `
	SELECT L.id, L.principal, L.interest_rate, L.installments, L.originated, L.customer_id, L.customer_name, L.customer_nic
	FROM loan L
	ORDER BY L.customer_name, L.id`

const FEES_FOR_LOAN = `
	SELECT F.id, F.loan_id, F.seq, F.paid_amount, F.due_date
	FROM scheduled_fee F
	WHERE F.loan_id = ?
	ORDER BY F.seq`

const INSERT_COLLECTION = `
	INSERT INTO new_collection (loan_id, fee_seq, amount, day, month, year, hour, minute, second, timezone,
		installment, installment_count, company_name, company_phone, client_name)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const COLLECTIONS_FOR_LOAN = `
	SELECT C.id, C.loan_id, C.fee_seq, C.amount, C.day, C.month, C.year, C.hour, C.minute, C.second, C.timezone,
		C.installment, C.installment_count, C.company_name, C.company_phone, C.client_name
	FROM new_collection C
	WHERE C.loan_id = ?
	ORDER BY C.id`

const ALL_COLLECTIONS = `
	SELECT C.id, C.loan_id, C.fee_seq, C.amount, C.day, C.month, C.year, C.hour, C.minute, C.second, C.timezone,
		C.installment, C.installment_count, C.company_name, C.company_phone, C.client_name
	FROM new_collection C
	ORDER BY C.id`

const COLLECTION_BY_ID = `
	SELECT C.id, C.loan_id, C.fee_seq, C.amount, C.day, C.month, C.year, C.hour, C.minute, C.second, C.timezone,
		C.installment, C.installment_count, C.company_name, C.company_phone, C.client_name
	FROM new_collection C
	WHERE C.id = ?`

const COLLECTION_COUNT = `
	SELECT COUNT(*) FROM new_collection`

const PURGE_COLLECTIONS = `DELETE FROM new_collection`

const PURGE_FEES = `DELETE FROM scheduled_fee`

const PURGE_LOANS = `DELETE FROM loan`

const USER_BY_USERNAME = `
	SELECT U.id, U.username, U.password, U.name, U.type
	FROM user U
	WHERE U.username = ?`

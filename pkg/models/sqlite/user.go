package sqlite

import (
	"database/sql"

	"github.com/crediruta/cobrador/pkg/models"
	"github.com/crediruta/cobrador/pkg/sql/queries"
	"golang.org/x/crypto/bcrypt"
)

// UserModel struct holds methods to query the user table
type UserModel struct {
	DB *sql.DB
}

// Get authenticates a device user by username and password.
func (m *UserModel) Get(username, password string) (models.User, error) {
	var u models.User
	err := m.DB.QueryRow(queries.USER_BY_USERNAME, username).Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Type)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrNoRecord
	}
	if err != nil {
		return models.User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		return models.User{}, err
	}

	return u, nil
}

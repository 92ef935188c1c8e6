package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type ProjectType string

const (
	PROJECT_TYPE_MYSQL ProjectType = "mysql"
	PROJECT_TYPE_CSV   ProjectType = "csv"
)

// Project binds a user-visible data source: either relational connection
// settings or an uploaded CSV file.
type Project struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Name      string      `json:"name" db:"name"`
	Type      ProjectType `json:"type" db:"project_type"`
	DBConfig  DBConfig    `json:"db_config" db:"db_config"`
	CSVPath   string      `json:"csv_path,omitempty" db:"csv_path"`
	CreatedAt int64       `json:"created_at" db:"created_at"`
	UpdatedAt int64       `json:"updated_at" db:"updated_at"`
}

// DBConfig keys follow the reasoning service contract, do not rename.
type DBConfig struct {
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
}

func (c DBConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *DBConfig) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		if len(src) == 0 {
			*c = DBConfig{}
			return nil
		}
		return json.Unmarshal(src, c)
	case string:
		return c.Scan([]byte(src))
	case nil:
		*c = DBConfig{}
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to DBConfig", src)
}

// Merge overlays non-zero fields from in, mirroring partial updates from
// the project settings form.
func (c *DBConfig) Merge(in DBConfig) {
	if in.Host != "" {
		c.Host = in.Host
	}
	if in.Port != 0 {
		c.Port = in.Port
	}
	if in.User != "" {
		c.User = in.User
	}
	if in.Password != "" {
		c.Password = in.Password
	}
	if in.Database != "" {
		c.Database = in.Database
	}
}

// DBConnection is the data-source binding sent to the reasoning service.
type DBConnection struct {
	Type   ProjectType    `json:"type"`
	Config map[string]any `json:"config"`
}

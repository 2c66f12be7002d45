package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	pkgErrors "task-tracker/pkg/errors"
)

// mysql 唯一键冲突错误码
const mysqlDuplicateEntry = 1062

// postgres unique_violation
const pqUniqueViolation = "23505"

// dbError 将底层数据库错误转换为业务错误
func dbError(message string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgErrors.ErrRecordNotFound
	}
	if IsUniqueViolation(err) {
		return pkgErrors.Wrap(pkgErrors.CodeConflict, pkgErrors.ErrRecordExists.Message, err)
	}
	return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, message, err)
}

// IsUniqueViolation 判断是否违反唯一约束（mysql / postgres / sqlite）
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}

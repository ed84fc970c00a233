package repo

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntry 判断错误是否为 MySQL 唯一键冲突（1062）
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

package tickets

import (
	"errors"
	"strconv"
)

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func assertErr(msg string) error {
	return errors.New(msg)
}

package heap

import "fmt"

func kindBracket(k Kind, count int) string {
	return fmt.Sprintf("<%s[%d]>", k, count)
}

func kindAddr(k Kind, index int) string {
	return fmt.Sprintf("<%s@%d>", k, index)
}

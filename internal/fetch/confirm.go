package fetch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfirmFunc 输出提示并返回用户是否同意；读取失败时返回错误。
type ConfirmFunc func(prompt string) (bool, error)

// StdinConfirm 是默认确认实现：提示写到 stderr，从 stdin 读取一行，
// 仅 y/yes（不区分大小写）视为同意，空输入按拒绝处理。
func StdinConfirm(prompt string) (bool, error) {
	return readConfirm(prompt, os.Stderr, os.Stdin)
}

func readConfirm(prompt string, out io.Writer, in io.Reader) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

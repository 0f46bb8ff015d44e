package textbody_test

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/adamwoolhether/respkit/textbody"
)

func ExampleDecode() {
	body := strings.NewReader("héllo, 世界")

	text, err := textbody.Decode(body, unicode.UTF8)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(text)
	// Output: héllo, 世界
}

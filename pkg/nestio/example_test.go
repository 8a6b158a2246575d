package nestio_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/vivify/pkg/nestio"
)

func ExampleReadPaths() {
	input := `
server.host = "localhost"
server.port = 8080
debug = true
`
	m, err := nestio.ReadPaths(context.Background(), strings.NewReader(input), nestio.ReadOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = nestio.WriteJSON(os.Stdout, m)
	// Output:
	// {
	//   "server": {
	//     "host": "localhost",
	//     "port": 8080
	//   },
	//   "debug": true
	// }
}

func ExampleWritePaths() {
	m, err := nestio.ReadJSON(strings.NewReader(`{"a": {"b": [1, 2], "c": "x"}}`), nestio.ReadOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = nestio.WritePaths(os.Stdout, m, nestio.WriteOptions{Separator: "/"})
	// Output:
	// a/b = [1, 2]
	// a/c = "x"
}

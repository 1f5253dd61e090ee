// Command goschema loads data files through schemas defined in YAML or JSON
// definition documents.
//
//	goschema check --defs shop.yaml
//	goschema load --defs shop.yaml --type Order order.json
//	goschema schema --defs shop.yaml --type Order
//	goschema watch --defs shop.yaml --metrics-addr :9090
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errLoadFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

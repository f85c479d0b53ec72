// File: cmd/auction/main.go
package main

import (
	"fmt"
	"time"

	"github.com/lguibr/bollywood"
	"github.com/lguibr/bollywood/examples/auction"
)

func main() {
	fmt.Println("Runtime created.")

	runAuction("first", 100, 4*time.Second, []bidder{
		{name: "1a", increment: 20, top: 200},
		{name: "1b", increment: 10, top: 300},
	})

	runAuction("cut-off", 100, 500*time.Millisecond, []bidder{
		{name: "2a", increment: 20, top: 200},
		{name: "2b", increment: 10, top: 300},
	})

	runAuction("too-expensive", 400, 500*time.Millisecond, []bidder{
		{name: "3a", increment: 20, top: 200},
		{name: "3b", increment: 10, top: 300},
	})
}

type bidder struct {
	name      string
	increment int
	top       int
}

func runAuction(label string, minBid int, duration time.Duration, bidders []bidder) {
	rt := bollywood.NewRuntime(bollywood.DefaultRuntimeConfig())
	defer rt.Reset()

	sellerName := auction.NewSeller(rt, nil, nil)
	a := auction.New(rt, sellerName, minBid, time.Now().Add(duration))

	for _, b := range bidders {
		auction.NewClient(rt, b.name, b.increment, b.top, a, nil)
	}

	if err := rt.Quiesce(); err != nil {
		fmt.Printf("auction %q: runtime error: %v\n", label, err)
		return
	}

	winner, maxBid, err := a.Winner()
	if err != nil {
		fmt.Printf("auction %q: could not read winner: %v\n", label, err)
		return
	}
	if winner.IsZero() {
		fmt.Printf("Notice: auction %q failed; the maximum received bid was %d\n", label, maxBid)
		return
	}
	fmt.Printf("Notice: auction %q won by %s with a bid of %d\n", label, winner, maxBid)
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dkhmelev/storefront/internal/app"
	"github.com/dkhmelev/storefront/internal/catalog"
	"github.com/dkhmelev/storefront/internal/config"
	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
	"github.com/dkhmelev/storefront/internal/nav"
	"github.com/dkhmelev/storefront/internal/service"
	"github.com/dkhmelev/storefront/internal/storage/bolt"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := bolt.Open(cfg.Store.Dir, cfg.Store.FileName)
	if err != nil {
		logger.Fatal("failed to open local store", "error", err)
	}
	defer store.Close()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("failed to load catalog", "error", err)
	}

	persister := service.NewPersister(store, logger)

	go func() {
		for res := range persister.Results() {
			if res.Err != nil {
				logger.Warn("persistence lagging behind UI state", "key", res.Key, "error", res.Err.Error())
			}
		}
	}()

	a := app.New(
		service.NewSession(store, logger, cfg.Auth.BcryptCost),
		service.NewCart(store, persister, logger),
		service.NewWishlist(store, persister, logger),
		service.NewProfileEditor(store, persister, logger),
		cat,
		&nav.LogToaster{Logger: logger},
		logger,
	)

	fmt.Printf("storefront %s (%s)\n", buildVersion, buildDate)

	// Block on the session check before showing any screen.
	a.Start(ctx)

	runLoop(ctx, a, cat)

	logger.Info("shutting down, draining pending writes")
	if err := persister.Close(); err != nil {
		logger.Error("failed to drain write queue", "error", err)
	}
	logger.Info("shutdown complete")
}

// runLoop drives the logical screens from stdin until EOF, "quit" or a
// signal. It is plain view plumbing; every rule it exercises lives in
// the packages below.
func runLoop(ctx context.Context, a *app.App, cat *catalog.Catalog) {
	scanner := bufio.NewScanner(os.Stdin)
	filter := catalog.Filter{}

	for {
		route := a.Router().Current()
		fmt.Printf("[%s] > ", route.Screen)
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Println()
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			printHelp()
		case "login":
			if len(args) != 2 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			if err := a.Login(ctx, args[0], args[1]); err != nil {
				fmt.Println("login failed:", err)
			}
		case "register":
			if len(args) != 3 {
				fmt.Println("usage: register <email> <password> <confirm>")
				continue
			}
			err := a.Register(ctx, service.RegisterParams{Email: args[0], Password: args[1], PasswordConfirm: args[2]})
			if err != nil {
				fmt.Println("registration failed:", err)
			} else {
				fmt.Println("registered, please log in")
			}
		case "logout":
			a.Logout(ctx)
		case "list":
			printProducts(a.View())
		case "search":
			filter.Query = strings.Join(args, " ")
			applyAndPrint(a, filter)
		case "price":
			if len(args) != 2 {
				fmt.Println("usage: price <min> <max>")
				continue
			}
			min, err1 := strconv.ParseFloat(args[0], 64)
			max, err2 := strconv.ParseFloat(args[1], 64)
			if err1 != nil || err2 != nil {
				fmt.Println("usage: price <min> <max>")
				continue
			}
			filter.PriceEnabled, filter.MinPrice, filter.MaxPrice = true, min, max
			applyAndPrint(a, filter)
		case "rating":
			if len(args) != 1 {
				fmt.Println("usage: rating <min>")
				continue
			}
			min, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				fmt.Println("usage: rating <min>")
				continue
			}
			filter.RatingEnabled, filter.MinRating = true, min
			applyAndPrint(a, filter)
		case "clearfilter":
			filter = catalog.Filter{}
			applyAndPrint(a, filter)
		case "open":
			if len(args) != 1 {
				fmt.Println("usage: open <product-id>")
				continue
			}
			if err := a.OpenProduct(args[0]); err != nil {
				fmt.Println(err)
				continue
			}
			if p, ok := a.Router().Current().Params.(model.Product); ok {
				fmt.Printf("%s — %s\n%s\n$%.2f, %.1f stars (%d reviews)\n", p.Name, p.Brand, p.Description, p.Price, p.Rating, p.Reviews)
			}
		case "back":
			a.Router().Back()
		case "add":
			if len(args) == 0 {
				fmt.Println("usage: add <product-id>")
				continue
			}
			p, err := cat.GetByID(args[0])
			if err != nil {
				fmt.Println("unknown product:", args[0])
				continue
			}
			a.AddToCartFromGrid(p)
		case "wish":
			if len(args) == 0 {
				fmt.Println("usage: wish <product-id>")
				continue
			}
			p, err := cat.GetByID(args[0])
			if err != nil {
				fmt.Println("unknown product:", args[0])
				continue
			}
			a.ToggleWishlist(p)
		case "cart":
			items := a.Cart().Items()
			if len(items) == 0 {
				fmt.Println("cart is empty")
				continue
			}
			for _, item := range items {
				fmt.Printf("%-4s %-28s x%-3d $%.2f\n", item.Product.ID, item.Product.Name, item.Quantity, item.Product.Price*float64(item.Quantity))
			}
			fmt.Printf("total: $%.2f\n", a.Cart().Total())
		case "inc":
			if len(args) == 1 {
				a.Cart().Increase(args[0])
			}
		case "dec":
			if len(args) == 1 {
				a.Cart().Decrease(args[0])
			}
		case "remove":
			if len(args) == 1 {
				a.Cart().Remove(args[0])
			}
		case "wishlist":
			for _, p := range a.Wishlist().Items() {
				fmt.Printf("%-4s %s\n", p.ID, p.Name)
			}
		case "profile":
			p, ok := a.Profile().Current()
			if !ok {
				fmt.Println("not logged in")
				continue
			}
			fmt.Printf("email: %s\nname: %s\nphone: %s\naddress: %s\ngender: %s\n", p.Email, p.Name, p.Phone, p.Address, p.Gender)
		case "setname":
			name := strings.Join(args, " ")
			if _, ok := a.Profile().Update(ctx, service.ProfileUpdate{Name: &name}); !ok {
				fmt.Println("not logged in")
			}
		case "setaddress":
			addr := strings.Join(args, " ")
			if _, ok := a.Profile().Update(ctx, service.ProfileUpdate{Address: &addr}); !ok {
				fmt.Println("not logged in")
			}
		default:
			fmt.Println("unknown command; try help")
		}
	}
}

func applyAndPrint(a *app.App, f catalog.Filter) {
	view, err := a.ApplyFilters(f)
	if err != nil {
		// the previous view stays on screen
		fmt.Println(err)
		return
	}
	printProducts(view)
}

func printProducts(products []model.Product) {
	if len(products) == 0 {
		fmt.Println("no products match")
		return
	}
	for _, p := range products {
		fmt.Printf("%-4s %-28s $%-8.2f %.1f stars\n", p.ID, p.Name, p.Price, p.Rating)
	}
}

func printHelp() {
	fmt.Println(`commands:
  register <email> <password> <confirm>
  login <email> <password>
  logout
  list | search <text> | price <min> <max> | rating <min> | clearfilter
  open <product-id> | back
  add <product-id>   (cart grid shortcut)
  cart | inc <id> | dec <id> | remove <id>
  wish <product-id>  (toggle wishlist)
  wishlist
  profile | setname <name> | setaddress <address>
  quit`)
}

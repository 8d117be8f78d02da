package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/0097eo/ideal-mobile-sub000/internal/domain/cart"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/checkout"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/order"
)

const shellHelp = `commands:
  cart                                show the cart
  refresh                             reload cart and wishlist
  add <product-id> [qty]              add a product to the cart
  qty <line-id> <n>                   set a line quantity (0 removes)
  rm <line-id>                        remove a line
  clear                               empty the cart
  wish                                show the wishlist
  save <product-id>                   toggle wishlist membership
  checkout cod <address>              place a cash-on-delivery order
  checkout mpesa <phone> <address>    place an order paid via M-Pesa push
  order <id>                          show an order
  order addr <id> <address>           update an order's shipping address
  order cancel <id>                   cancel a pending order
  exit`

// runShell drives a session from stdin, one command per line. It exists for
// manual exercise against a live gateway; the domain packages are the
// deliverable.
func runShell(ctx context.Context, sess *Session, lg *zap.Logger) error {
	fmt.Println("storefront shell; type 'help' for commands")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		if err := dispatch(ctx, sess, args); err != nil {
			fmt.Printf("error: %v\n", err)
			lg.Debug("Shell command failed", zap.Strings("args", args), zap.Error(err))
		}
	}
}

func dispatch(ctx context.Context, sess *Session, args []string) error {
	switch args[0] {
	case "help":
		fmt.Println(shellHelp)
		return nil
	case "cart":
		printCart(sess.Cart.Snapshot(), sess.Cart.ItemCount())
		return nil
	case "refresh":
		return sess.Start(ctx)
	case "add":
		if len(args) < 2 {
			return errors.New("usage: add <product-id> [qty]")
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "product id")
		}
		qty := 1
		if len(args) > 2 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return errors.Wrap(err, "quantity")
			}
		}
		snap, err := sess.Cart.AddLine(ctx, productID, qty)
		if err != nil {
			return err
		}
		printCart(*snap, sess.Cart.ItemCount())
		return nil
	case "qty", "rm":
		if len(args) < 2 {
			return errors.Errorf("usage: %s <line-id> ...", args[0])
		}
		lineID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "line id")
		}
		qty := 0
		if args[0] == "qty" {
			if len(args) < 3 {
				return errors.New("usage: qty <line-id> <n>")
			}
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return errors.Wrap(err, "quantity")
			}
		}
		snap, err := sess.Cart.SetLineQuantity(ctx, lineID, qty)
		if err != nil {
			return err
		}
		printCart(*snap, sess.Cart.ItemCount())
		return nil
	case "clear":
		_, err := sess.Cart.Clear(ctx)
		return err
	case "wish":
		for _, e := range sess.Wishlist.Entries() {
			fmt.Printf("  %d  %s  %s\n", e.ProductID, e.Name, e.Price.StringFixed(2))
		}
		return nil
	case "save":
		if len(args) < 2 {
			return errors.New("usage: save <product-id>")
		}
		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "product id")
		}
		return sess.Wishlist.Toggle(ctx, productID)
	case "checkout":
		return runCheckout(ctx, sess, args[1:])
	case "order":
		return runOrder(ctx, sess, args[1:])
	default:
		return errors.Errorf("unknown command %q; type 'help'", args[0])
	}
}

func runCheckout(ctx context.Context, sess *Session, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: checkout cod <address> | checkout mpesa <phone> <address>")
	}

	form := checkout.Form{SameAsShipping: true}
	switch args[0] {
	case "cod":
		form.Method = checkout.PaymentCashOnDelivery
		form.ShippingAddress = strings.Join(args[1:], " ")
	case "mpesa":
		if len(args) < 3 {
			return errors.New("usage: checkout mpesa <phone> <address>")
		}
		form.Method = checkout.PaymentMpesa
		form.MpesaPhone = args[1]
		form.ShippingAddress = strings.Join(args[2:], " ")
	case "card":
		form.Method = checkout.PaymentCard
		form.ShippingAddress = strings.Join(args[1:], " ")
	default:
		return errors.Errorf("unknown payment method %q", args[0])
	}

	printOutcome(sess.Checkout.Submit(ctx, sess.Cart.Snapshot(), form))
	return nil
}

func runOrder(ctx context.Context, sess *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: order <id> | order addr <id> <address> | order cancel <id>")
	}

	switch args[0] {
	case "addr":
		if len(args) < 3 {
			return errors.New("usage: order addr <id> <address>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "order id")
		}
		o, err := sess.Orders.Fetch(ctx, id)
		if err != nil {
			return err
		}
		updated, err := sess.Orders.UpdateAddresses(ctx, o, strings.Join(args[2:], " "), o.BillingAddress)
		if errors.Is(err, order.ErrNoChanges) {
			fmt.Println("no changes")
			return nil
		}
		if err != nil {
			return err
		}
		printOrder(updated)
		return nil
	case "cancel":
		if len(args) < 2 {
			return errors.New("usage: order cancel <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "order id")
		}
		o, err := sess.Orders.Fetch(ctx, id)
		if err != nil {
			return err
		}
		msg, err := sess.Orders.Cancel(ctx, o)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	default:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "order id")
		}
		o, err := sess.Orders.Fetch(ctx, id)
		if err != nil {
			return err
		}
		printOrder(o)
		return nil
	}
}

func printCart(snap cart.Snapshot, itemCount int) {
	if snap.Empty() {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range snap.Lines {
		fmt.Printf("  line %d  %s x%d @ %s\n", l.ID, l.Product.Name, l.Quantity, l.Product.Price.StringFixed(2))
	}
	fmt.Printf("  %d item(s), total %s\n", itemCount, snap.Total.StringFixed(2))
}

func printOrder(o *order.Order) {
	fmt.Printf("order %d  %s  total %s\n", o.ID, o.Status, o.Total.StringFixed(2))
	fmt.Printf("  ship to: %s\n", o.ShippingAddress)
	for _, it := range o.Items {
		fmt.Printf("  %s x%d = %s\n", it.Name, it.Quantity, it.Subtotal.StringFixed(2))
	}
}

func printOutcome(out checkout.Outcome) {
	switch v := out.(type) {
	case checkout.EmptyCart:
		fmt.Println("cart is empty; nothing to check out")
	case checkout.ValidationFailed:
		for field, msg := range v.Fields {
			fmt.Printf("  %s: %s\n", field, msg)
		}
	case checkout.OrderCreationFailed:
		fmt.Printf("order creation failed: %s\n", v.Message)
	case checkout.OrderPlaced:
		fmt.Printf("order %d placed; pay on delivery\n", v.OrderID)
	case checkout.AwaitingPayment:
		fmt.Printf("order %d placed; check your phone to complete the M-Pesa payment\n", v.OrderID)
	case checkout.PaymentInitiationFailed:
		fmt.Printf("order %d was created but payment could not be started: %s\n", v.OrderID, v.Message)
	case checkout.PaymentUnavailable:
		fmt.Printf("payment method %s is not available yet\n", v.Method)
	default:
		fmt.Printf("unexpected outcome %T\n", out)
	}
}

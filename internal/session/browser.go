package session

import (
	"context"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// browser drives a real, visible Chrome window via chromedp. The window has
// to stay on screen so the operator can answer the 2FA challenge.
type browser struct {
	loginURL string
	userID   string
	password string

	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

func newBrowser(ctx context.Context, loginURL, userID, password string) (*browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	return &browser{
		loginURL:    loginURL,
		userID:      userID,
		password:    password,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

func (b *browser) SubmitLogin(ctx context.Context) error {
	return chromedp.Run(b.tabCtx,
		chromedp.Navigate(b.loginURL),
		chromedp.WaitVisible(`input[name="userId"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="userId"]`, b.userID, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="password"]`, b.password, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
	)
}

func (b *browser) Cookies(ctx context.Context) ([]Cookie, error) {
	var cookies []Cookie
	err := chromedp.Run(b.tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		cks, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cks {
			cookies = append(cookies, Cookie{Name: c.Name, Value: c.Value})
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return cookies, nil
}

func (b *browser) Close() error {
	b.cancelTab()
	b.cancelAlloc()
	return nil
}

package inbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/rs/zerolog"

	"interview-engine/internal/domain"
)

// IMAPFetcher reads recent mail over IMAPS. The mailbox is opened
// read-only and bodies are fetched with BODY.PEEK[], so flags never change.
type IMAPFetcher struct {
	Host     string
	Port     int
	Username string
	// Password is resolved on every fetch so keychain edits apply without
	// a restart.
	Password  func() (string, error)
	Mailbox   string
	SinceDays int
	Max       int
	TLS       *tls.Config
	Log       zerolog.Logger
	Now       func() time.Time
}

func (f *IMAPFetcher) Name() string { return "imap" }

func (f *IMAPFetcher) addr() string {
	port := f.Port
	if port == 0 {
		port = 993
	}
	return net.JoinHostPort(f.Host, strconv.Itoa(port))
}

func (f *IMAPFetcher) Fetch(ctx context.Context) ([]domain.Email, error) {
	if f.Password == nil {
		return nil, errors.New("imap: no password source")
	}
	pw, err := f.Password()
	if err != nil {
		return nil, err
	}

	tlsCfg := f.TLS
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: f.Host}
	}

	c, err := dialAndLogin(ctx, f.addr(), f.Username, pw, tlsCfg)
	if err != nil {
		return nil, err
	}
	defer f.logoutAndClose(c)

	mailbox := f.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	since := f.SinceDays
	if since <= 0 {
		since = 14
	}
	return fetchSince(ctx, c, now.AddDate(0, 0, -since), f.Max)
}

func dialAndLogin(ctx context.Context, addr, username, password string, tlsCfg *tls.Config) (*imapclient.Client, error) {
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: tlsCfg})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// unblock pending commands when the caller gives up
	context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// fetchSince returns up to max messages received since cutoff, newest first.
func fetchSince(ctx context.Context, c *imapclient.Client, cutoff time.Time, max int) ([]domain.Email, error) {
	if max <= 0 {
		max = 50
	}

	searchData, err := c.UIDSearch(&imap.SearchCriteria{Since: cutoff}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	slices.Reverse(uids)
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:          true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]domain.Email, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		e := ParseMessage(buf.FindBodySection(bodyAll))
		if env := buf.Envelope; env != nil {
			if e.Subject == "" {
				e.Subject = env.Subject
			}
			if e.From == "" {
				e.From = joinAddrs(env.From)
			}
			if e.Date.IsZero() {
				e.Date = env.Date
			}
			if id := strings.Trim(env.MessageID, "<>"); id != "" {
				e.MessageID = id
			}
		}
		if e.Date.IsZero() {
			e.Date = buf.InternalDate
		}
		if e.MessageID == "" {
			e.MessageID = fmt.Sprintf("imap-uid:%d", buf.UID)
		}
		e.Source = "imap"
		out = append(out, e)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func (f *IMAPFetcher) logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		f.Log.Debug().Err(err).Msg("imap logout")
	}
	_ = c.Close()
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := &addrs[i]
		addr := strings.TrimSpace(a.Addr())
		if addr == "" {
			addr = strings.TrimSpace(a.Name)
		}
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	return strings.Join(parts, ", ")
}

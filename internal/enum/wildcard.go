package enum

import (
	"fmt"
	"time"

	"github.com/miekg/dns"
)

// WildcardChecker resolves a random label under a domain to detect
// wildcard DNS before bruteforcing.
type WildcardChecker struct {
	Resolvers []string
	Client    *dns.Client
}

func NewWildcardChecker() *WildcardChecker {
	return &WildcardChecker{
		Resolvers: []string{"8.8.8.8:53", "1.1.1.1:53"},
		Client:    &dns.Client{Timeout: 5 * time.Second},
	}
}

// Check queries a random label under the domain. If it answers, the zone
// has wildcard DNS and bruteforce output will contain noise.
func (w *WildcardChecker) Check(domain string) (bool, []string) {
	probe := fmt.Sprintf("autosub-wildcard-%d.%s.", time.Now().UnixNano(), domain)

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(probe), dns.TypeA)

	for _, resolver := range w.Resolvers {
		in, _, err := w.Client.Exchange(m, resolver)
		if err != nil || in == nil {
			continue
		}
		if in.Rcode != dns.RcodeSuccess || len(in.Answer) == 0 {
			return false, nil
		}
		var ips []string
		for _, rr := range in.Answer {
			if a, ok := rr.(*dns.A); ok {
				ips = append(ips, a.A.String())
			}
		}
		return true, ips
	}
	return false, nil
}

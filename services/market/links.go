package market

import (
	"strings"

	"github.com/ipfs/go-cid"
)

const (
	ipfsScheme = "ipfs://"
	ipfsPrefix = "ipfs/"
	// shortest CIDv0 in base58
	minCIDLength = 46
)

// LinkResolver turns image references from the catalog into fetchable URLs.
type LinkResolver struct {
	gateway     string
	placeholder string
}

func NewLinkResolver(gateway, placeholder string) *LinkResolver {
	if gateway != "" && !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return &LinkResolver{gateway: gateway, placeholder: placeholder}
}

// Resolve maps:
//
//	""                        -> placeholder
//	ipfs://[ipfs/]<cid>/path  -> <gateway><cid>/path
//	<cid>[/path]              -> <gateway><cid>[/path]
//	//host/path               -> https://host/path
//
// and returns anything else unchanged.
func (r *LinkResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return r.placeholder
	case strings.HasPrefix(ref, ipfsScheme):
		return r.gateway + strings.TrimPrefix(strings.TrimPrefix(ref, ipfsScheme), ipfsPrefix)
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case isCID(ref):
		return r.gateway + ref
	}
	return ref
}

func isCID(ref string) bool {
	head := ref
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		head = ref[:i]
	}
	if len(head) < minCIDLength || strings.Contains(head, ":") {
		return false
	}
	if strings.HasPrefix(head, "Qm") {
		return true
	}
	_, err := cid.Decode(head)
	return err == nil
}

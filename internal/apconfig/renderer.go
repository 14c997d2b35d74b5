package apconfig

import (
	"aprd/internal/models"
	"aprd/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultHostapdTemplate = `# Generated by aprd. Rewritten on every credential rotation.
interface={{INTERFACE}}
driver=nl80211
ssid={{SSID}}
utf8_ssid=1
hw_mode={{HW_MODE}}
channel={{CHANNEL}}
country_code={{COUNTRY_CODE}}
ieee80211d=1
ieee80211n=1
wmm_enabled=1
macaddr_acl=0
auth_algs=1
ignore_broadcast_ssid=0
{{SECURITY}}
`

// Renderer produces hostapd and dnsmasq configuration text. Output depends
// only on its inputs and the template file contents.
type Renderer struct {
	templateDir string
}

func NewRenderer(templateDir string) *Renderer {
	return &Renderer{templateDir: templateDir}
}

// Template returns the hostapd template for iface: an interface-specific
// file, then the generic file, then the built-in default.
func (r *Renderer) Template(iface string) (string, error) {
	if r.templateDir == "" {
		return defaultHostapdTemplate, nil
	}
	candidates := []string{
		filepath.Join(r.templateDir, "hostapd-"+iface+"-template.conf"),
		filepath.Join(r.templateDir, "hostapd-template.conf"),
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("reading template %s: %w", path, err)
		}
	}
	return defaultHostapdTemplate, nil
}

func (r *Renderer) Hostapd(ic models.InterfaceConfig, cred models.Credential) ([]byte, error) {
	tmpl, err := r.Template(ic.Name)
	if err != nil {
		return nil, err
	}
	replacer := strings.NewReplacer(
		"{{INTERFACE}}", ic.Name,
		"{{SSID}}", cred.SSID,
		"{{PASSWORD}}", cred.Password,
		"{{CHANNEL}}", strconv.Itoa(ic.Channel),
		"{{COUNTRY_CODE}}", ic.CountryCode,
		"{{HW_MODE}}", hwMode(ic.Channel),
		"{{SECURITY}}", securityBlock(ic.SecurityMode, cred.Password),
	)
	return []byte(replacer.Replace(tmpl)), nil
}

func (r *Renderer) Dnsmasq(ic models.InterfaceConfig) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by aprd for %s.\n", ic.Name)
	fmt.Fprintf(&b, "interface=%s\n", ic.Name)
	b.WriteString("bind-interfaces\n")
	fmt.Fprintf(&b, "dhcp-range=%s,%s,%s,%s\n", ic.DhcpRangeStart, ic.DhcpRangeEnd, ic.ApNetmask, ic.DhcpLeaseTime)
	fmt.Fprintf(&b, "dhcp-option=option:router,%s\n", ic.ApIP)
	fmt.Fprintf(&b, "dhcp-option=option:dns-server,%s\n", ic.ApIP)
	return []byte(b.String())
}

func hwMode(channel int) string {
	if channel > 14 {
		return "a"
	}
	return "g"
}

func securityBlock(mode, password string) string {
	switch mode {
	case structures.SecurityWPA3:
		return "wpa=2\nwpa_key_mgmt=SAE\nrsn_pairwise=CCMP\nieee80211w=2\nsae_password=" + password
	case structures.SecurityTransition:
		return "wpa=2\nwpa_key_mgmt=WPA-PSK SAE\nrsn_pairwise=CCMP\nieee80211w=1\nwpa_passphrase=" + password + "\nsae_password=" + password
	default:
		return "wpa=2\nwpa_key_mgmt=WPA-PSK\nrsn_pairwise=CCMP\nwpa_passphrase=" + password
	}
}

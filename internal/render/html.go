package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var fragments = template.Must(template.New("fragments").Parse(`
{{define "cart"}}<div class="cart-items">
{{- if .Empty}}
<p class="cart-empty">Your cart is empty</p>
{{- else}}
{{- range .Lines}}
<div class="cart-item" data-index="{{.Index}}">
<span class="cart-item-name">{{.Name}}</span>
<span class="cart-item-price">{{.Price}}</span>
<button class="qty-decrease" data-index="{{.Index}}">-</button>
<span class="cart-item-qty">{{.Quantity}}</span>
<button class="qty-increase" data-index="{{.Index}}">+</button>
<span class="cart-item-subtotal">{{.Subtotal}}</span>
<button class="cart-item-remove" data-index="{{.Index}}">Remove</button>
</div>
{{- end}}
{{- end}}
<div class="cart-total">Total: {{.Total}}</div>
</div>{{end}}

{{define "tracker"}}<div class="tracker-result tracker-{{.State}}">
{{- if .Error}}
<p class="tracker-error">{{.Error}}</p>
{{- else}}
<p class="tracker-message">{{.Message}}</p>
{{- end}}
{{- with .Order}}
<div class="tracker-order">
<p>Order ID: {{.OrderID}}</p>
<p>Placed: {{.Date}}</p>
<ul>
{{- range .Lines}}
<li>{{.Name}} x {{.Quantity}} = {{.Subtotal}}</li>
{{- end}}
</ul>
<p>Total: {{.Total}}</p>
</div>
{{- end}}
</div>{{end}}
`))

func (r *Renderer) CartHTML(v CartView) (string, error) {
	return execute("cart", v)
}

func (r *Renderer) TrackerHTML(v TrackerView) (string, error) {
	return execute("tracker", v)
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

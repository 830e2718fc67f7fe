package invoices

import "html/template"

// invoiceTemplate renders the bilingual invoice. The document is laid out
// right-to-left with Latin order numbers and prices kept left-to-right via
// bdi elements.
var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="utf-8">
<title>فاتورة {{.OrderNumber}} | Invoice {{.OrderNumber}}</title>
<style>
  body { font-family: "Segoe UI", Tahoma, sans-serif; color: #1a1a1a; margin: 2rem; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #2c6e49; padding-bottom: 1rem; }
  .seller h1 { margin: 0; font-size: 1.4rem; color: #2c6e49; }
  .seller p, .meta p { margin: 0.2rem 0; font-size: 0.9rem; }
  table { width: 100%; border-collapse: collapse; margin-top: 1.5rem; }
  th, td { border: 1px solid #d0d0d0; padding: 0.5rem 0.75rem; font-size: 0.9rem; }
  th { background: #f3f7f4; text-align: right; }
  td.num { direction: ltr; text-align: left; white-space: nowrap; }
  .totals { margin-top: 1rem; width: 40%; margin-inline-start: auto; }
  .totals td { border: none; padding: 0.25rem 0.75rem; }
  .totals tr.grand td { font-weight: bold; border-top: 2px solid #2c6e49; }
  .footer { margin-top: 2rem; font-size: 0.8rem; color: #666; }
</style>
</head>
<body>
  <div class="header">
    <div class="seller">
      <h1>{{.SellerNameAr}}</h1>
      <p>{{.SellerName}}</p>
      {{if .SellerVATNo}}<p>الرقم الضريبي / VAT No: <bdi>{{.SellerVATNo}}</bdi></p>{{end}}
    </div>
    <div class="meta">
      <p>فاتورة ضريبية / Tax Invoice</p>
      <p>رقم الطلب / Order: <bdi>{{.OrderNumber}}</bdi></p>
      <p>التاريخ / Date: <bdi>{{.IssuedAt}}</bdi></p>
    </div>
  </div>

  <p>العميل / Customer: {{.CustomerName}}{{if .CustomerPhone}} — <bdi>{{.CustomerPhone}}</bdi>{{end}}</p>
  {{if .ShippingAddress}}<p>عنوان التوصيل / Shipping: {{.ShippingAddress}}</p>{{end}}

  <table>
    <thead>
      <tr>
        <th>المنتج / Item</th>
        <th>الكمية / Qty</th>
        <th>سعر الوحدة / Unit Price</th>
        <th>المجموع / Subtotal</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{.NameAr}}{{if .Name}} / {{.Name}}{{end}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{.UnitPrice}}</td>
        <td class="num">{{.Subtotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>الإجمالي قبل الضريبة / Net</td><td class="num">{{.NetAmount}}</td></tr>
    <tr><td>ضريبة القيمة المضافة ({{.VATPercent}}%) / VAT</td><td class="num">{{.VATAmount}}</td></tr>
    <tr class="grand"><td>الإجمالي / Total</td><td class="num">{{.TotalAmount}}</td></tr>
  </table>

  <div class="footer">
    <p>شكراً لتسوقكم معنا / Thank you for your purchase.</p>
  </div>
</body>
</html>
`))

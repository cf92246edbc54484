package notifications

import (
	"bytes"
	"html/template"

	"urbanfix-backend/internal/solicitud"
)

const solicitudNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Nueva solicitud de presupuesto</h3>
  <p><strong>Cliente:</strong> {{.NombreApellido}}</p>
  <p><strong>Telefono:</strong> {{.Telefono}}</p>
  <p><strong>Direccion:</strong> {{.Direccion}}</p>
  <p><strong>Categoria:</strong> {{.CategoriaTrabajo}}</p>
  <p><strong>Urgencia:</strong> {{.Urgencia}}</p>
  <p><strong>Ventanas horarias:</strong> {{.VentanasHorarias}}</p>
  <p><strong>Fecha:</strong> {{.MarcaTemporal}}</p>
  <p><strong>Descripcion:</strong><br/>{{.DescripcionProblema}}</p>
</body>
</html>`

var solicitudNotificationTmpl = template.Must(template.New("solicitud_notification").Parse(solicitudNotificationTemplate))

func buildSolicitudNotificationHTML(rec solicitud.Record) (string, error) {
	var buf bytes.Buffer
	if err := solicitudNotificationTmpl.Execute(&buf, rec); err != nil {
		return "", err
	}
	return buf.String(), nil
}

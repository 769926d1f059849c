// Package endpoint holds the Payconiq/Bancontact host names for each environment.
package endpoint

import "github.com/garrettladley/payconiq/internal/env"

const APIVersion = "v3"

const (
	APIProduction = "https://merchant.api.bancontact.net/"
	APIStaging    = "https://merchant.api.preprod.bancontact.net/"

	CertificatesProduction = "https://jwks.bancontact.net"
	CertificatesStaging    = "https://jwks.preprod.bancontact.net"

	QRPortal = "https://qrcodegenerator.api.bancontact.net/qrcode"
)

// Legacy payconiq.com hosts, still reachable for merchants that have not migrated.
const (
	APIProductionLegacy = "https://api.payconiq.com/"
	APIStagingLegacy    = "https://api.ext.payconiq.com/"

	CertificatesProductionLegacy = "https://payconiq.com/certificates"
	CertificatesStagingLegacy    = "https://ext.payconiq.com/certificates"

	QRPortalLegacy = "https://portal.payconiq.com/qrcode"
)

type Set struct {
	// API is the versioned REST base, without a trailing slash.
	API          string
	Certificates string
	QRPortal     string
}

func For(e env.Environment, legacy bool) Set {
	if legacy {
		if e.IsProduction() {
			return Set{
				API:          APIProductionLegacy + APIVersion,
				Certificates: CertificatesProductionLegacy,
				QRPortal:     QRPortalLegacy,
			}
		}
		return Set{
			API:          APIStagingLegacy + APIVersion,
			Certificates: CertificatesStagingLegacy,
			QRPortal:     QRPortalLegacy,
		}
	}

	if e.IsProduction() {
		return Set{
			API:          APIProduction + APIVersion,
			Certificates: CertificatesProduction,
			QRPortal:     QRPortal,
		}
	}
	return Set{
		API:          APIStaging + APIVersion,
		Certificates: CertificatesStaging,
		QRPortal:     QRPortal,
	}
}

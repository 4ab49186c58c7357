package models

// CategoryKey is the stable blog category identifier used for filtering.
type CategoryKey string

const (
	CategoryPrices    CategoryKey = "prices"
	CategoryTips      CategoryKey = "tips"
	CategorySEO       CategoryKey = "seo"
	CategoryDesign    CategoryKey = "design"
	CategoryEcommerce CategoryKey = "ecommerce"
)

var CategoryKeys = []CategoryKey{CategoryPrices, CategoryTips, CategorySEO, CategoryDesign, CategoryEcommerce}

func (c CategoryKey) Valid() bool {
	return contains(CategoryKeys, c)
}

// ProjectType is the service category a portfolio project belongs to.
type ProjectType string

const (
	ProjectLanding        ProjectType = "landing"
	ProjectBusiness       ProjectType = "business"
	ProjectShop           ProjectType = "shop"
	ProjectTgBasic        ProjectType = "tg-basic"
	ProjectTgShop         ProjectType = "tg-shop"
	ProjectTgComplex      ProjectType = "tg-complex"
	ProjectAutoParsing    ProjectType = "auto-parsing"
	ProjectAutoScripts    ProjectType = "auto-scripts"
	ProjectAutoComplex    ProjectType = "auto-complex"
	ProjectMobileMVP      ProjectType = "mobile-mvp"
	ProjectMobileBusiness ProjectType = "mobile-business"
	ProjectMobileShop     ProjectType = "mobile-shop"
)

var ProjectTypes = []ProjectType{
	ProjectLanding, ProjectBusiness, ProjectShop,
	ProjectTgBasic, ProjectTgShop, ProjectTgComplex,
	ProjectAutoParsing, ProjectAutoScripts, ProjectAutoComplex,
	ProjectMobileMVP, ProjectMobileBusiness, ProjectMobileShop,
}

func (p ProjectType) Valid() bool {
	return contains(ProjectTypes, p)
}

// InquiryType is what a visitor asks for on the contact form.
type InquiryType string

const (
	InquiryLanding  InquiryType = "landing"
	InquiryBusiness InquiryType = "business"
	InquiryShop     InquiryType = "shop"
	InquirySupport  InquiryType = "support"
	InquirySEO      InquiryType = "seo"
	InquiryAds      InquiryType = "ads"
)

var InquiryTypes = []InquiryType{InquiryLanding, InquiryBusiness, InquiryShop, InquirySupport, InquirySEO, InquiryAds}

func (t InquiryType) Valid() bool {
	return contains(InquiryTypes, t)
}

// RequestStatus is moved by hand in the admin panel.
type RequestStatus string

const (
	StatusNew       RequestStatus = "new"
	StatusRead      RequestStatus = "read"
	StatusProcessed RequestStatus = "processed"
	StatusArchived  RequestStatus = "archived"
)

var RequestStatuses = []RequestStatus{StatusNew, StatusRead, StatusProcessed, StatusArchived}

func (s RequestStatus) Valid() bool {
	return contains(RequestStatuses, s)
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

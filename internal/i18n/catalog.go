package i18n

// catalog holds the page chrome strings. Content records carry their own
// translations and never go through here.
var catalog = map[string]map[Locale]string{
	"nav.home":      {RU: "Главная", RO: "Acasă", EN: "Home"},
	"nav.services":  {RU: "Услуги", RO: "Servicii", EN: "Services"},
	"nav.portfolio": {RU: "Портфолио", RO: "Portofoliu", EN: "Portfolio"},
	"nav.blog":      {RU: "Блог", RO: "Blog", EN: "Blog"},
	"nav.contact":   {RU: "Контакты", RO: "Contacte", EN: "Contact"},

	"blog.all":           {RU: "Все статьи", RO: "Toate articolele", EN: "All articles"},
	"blog.readTime":      {RU: "мин. чтения", RO: "min de citit", EN: "min read"},
	"blog.empty":         {RU: "Статей пока нет", RO: "Nu există articole", EN: "No articles yet"},
	"blog.readMore":      {RU: "Читать", RO: "Citește", EN: "Read more"},
	"category.prices":    {RU: "Цены", RO: "Prețuri", EN: "Prices"},
	"category.tips":      {RU: "Советы", RO: "Sfaturi", EN: "Tips"},
	"category.seo":       {RU: "SEO", RO: "SEO", EN: "SEO"},
	"category.design":    {RU: "Дизайн", RO: "Design", EN: "Design"},
	"category.ecommerce": {RU: "E-commerce", RO: "E-commerce", EN: "E-commerce"},

	"portfolio.all":      {RU: "Все проекты", RO: "Toate proiectele", EN: "All projects"},
	"portfolio.problem":  {RU: "Задача", RO: "Problema", EN: "Problem"},
	"portfolio.solution": {RU: "Решение", RO: "Soluția", EN: "Solution"},
	"portfolio.result":   {RU: "Результат", RO: "Rezultatul", EN: "Result"},
	"portfolio.empty":    {RU: "Проектов пока нет", RO: "Nu există proiecte", EN: "No projects yet"},

	"pager.prev": {RU: "Назад", RO: "Înapoi", EN: "Previous"},
	"pager.next": {RU: "Вперёд", RO: "Înainte", EN: "Next"},

	"contact.title":   {RU: "Свяжитесь с нами", RO: "Contactați-ne", EN: "Get in touch"},
	"contact.name":    {RU: "Имя", RO: "Nume", EN: "Name"},
	"contact.email":   {RU: "Email", RO: "Email", EN: "Email"},
	"contact.phone":   {RU: "Телефон", RO: "Telefon", EN: "Phone"},
	"contact.type":    {RU: "Тип проекта", RO: "Tipul proiectului", EN: "Project type"},
	"contact.message": {RU: "Сообщение", RO: "Mesaj", EN: "Message"},
	"contact.send":    {RU: "Отправить", RO: "Trimite", EN: "Send"},
	"contact.sent":    {RU: "Заявка отправлена", RO: "Cererea a fost trimisă", EN: "Request sent"},
	"contact.failed":  {RU: "Не удалось отправить заявку", RO: "Cererea nu a putut fi trimisă", EN: "Could not send the request"},

	"newsletter.title":     {RU: "Подписка на новости", RO: "Abonare la noutăți", EN: "Newsletter"},
	"newsletter.subscribe": {RU: "Подписаться", RO: "Abonează-te", EN: "Subscribe"},
	"newsletter.success":   {RU: "Вы подписались", RO: "V-ați abonat", EN: "You are subscribed"},
	"newsletter.already":   {RU: "Вы уже подписаны", RO: "Sunteți deja abonat", EN: "You are already subscribed"},
	"newsletter.invalid":   {RU: "Некорректный email", RO: "Email invalid", EN: "Invalid email"},
	"newsletter.failed":    {RU: "Не удалось подписаться", RO: "Abonarea a eșuat", EN: "Subscription failed"},

	"home.hero":     {RU: "Сайты, магазины и боты под ключ", RO: "Site-uri, magazine și boți la cheie", EN: "Websites, shops and bots, turnkey"},
	"home.latest":   {RU: "Последние статьи", RO: "Ultimele articole", EN: "Latest articles"},
	"home.projects": {RU: "Избранные проекты", RO: "Proiecte selectate", EN: "Featured projects"},

	"service.landing":  {RU: "Лендинг", RO: "Landing page", EN: "Landing page"},
	"service.business": {RU: "Сайт для бизнеса", RO: "Site de business", EN: "Business website"},
	"service.shop":     {RU: "Интернет-магазин", RO: "Magazin online", EN: "Online shop"},
	"service.support":  {RU: "Поддержка сайта", RO: "Mentenanță", EN: "Website support"},
	"service.seo":      {RU: "SEO-продвижение", RO: "Promovare SEO", EN: "SEO"},
	"service.ads":      {RU: "Реклама", RO: "Publicitate", EN: "Advertising"},
}

// T returns the chrome string for key in loc, falling back to the default
// locale and then to the key itself.
func T(loc Locale, key string) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	if s, ok := entry[loc]; ok && s != "" {
		return s
	}
	return entry[Default]
}
